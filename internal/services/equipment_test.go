package services

import (
	"context"
	"testing"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type equipmentTestEnv struct {
	svc           EquipmentServiceInterface
	equipmentRepo *fakeEquipmentRepo
	procedureRepo *fakeProcedureRepo
	pmpEventRepo  *fakePmpEventRepo
	linkRepo      *fakeLinkRepo
	fileRepo      *fakeFileRepo
	projectSvc    *fakeProjectSvc
	cloner        *fakeCloner
}

func newEquipmentTestEnv() *equipmentTestEnv {
	logger := zap.NewNop()

	projectSvc := newFakeProjectSvc()
	projectSvc.projects[1] = &entities.Project{
		ID:        1,
		Name:      "Котельная",
		Status:    constants.ProjectStatusActive,
		StartDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	projectSvc.projects[2] = &entities.Project{
		ID:     2,
		Name:   "Старый цех",
		Status: constants.ProjectStatusArchived,
	}

	referenceRepo := newFakeReferenceRepo()
	referenceRepo.models[1] = &entities.EquipmentModel{ID: 1, Name: "НЦ-60"}
	referenceRepo.manufacturers[2] = &entities.Manufacturer{ID: 2, Name: "Гидромаш"}
	referenceRepo.groups[3] = &entities.EquipmentCategoryGroup{ID: 3, Name: "Насосное", ProjectCategoryID: 30}

	standardRepo := newFakeStandardRepo()
	standardRepo.groups[10] = &entities.StandardEquipmentCategoryGroup{ID: 10, Name: "Насосы", CategoryID: 5}

	equipmentRepo := newFakeEquipmentRepo()
	procedureRepo := newFakeProcedureRepo()
	pmpEventRepo := &fakePmpEventRepo{}
	linkRepo := newFakeLinkRepo()
	fileRepo := newFakeFileRepo()
	cloner := &fakeCloner{}

	procedureSvc := NewMaintenanceProcedureService(procedureRepo, logger)
	pmpEventSvc := NewPmpEventService(pmpEventRepo, logger)

	svc := NewEquipmentService(
		equipmentRepo, referenceRepo, standardRepo, linkRepo, newFakeInputRepo(), fileRepo,
		&fakeTxManager{}, projectSvc, procedureSvc, pmpEventSvc, newFakeBuildingSvc(), cloner, logger,
	)

	return &equipmentTestEnv{
		svc:           svc,
		equipmentRepo: equipmentRepo,
		procedureRepo: procedureRepo,
		pmpEventRepo:  pmpEventRepo,
		linkRepo:      linkRepo,
		fileRepo:      fileRepo,
		projectSvc:    projectSvc,
		cloner:        cloner,
	}
}

func (env *equipmentTestEnv) addEquipment(e *entities.Equipment) *entities.Equipment {
	if e.ProjectID == 0 {
		e.ProjectID = 1
	}
	if e.Project == nil {
		e.Project = env.projectSvc.projects[e.ProjectID]
	}
	return env.equipmentRepo.add(e)
}

func (env *equipmentTestEnv) addProcedure(equipmentID uint64) *entities.MaintenanceProcedure {
	id, _ := env.procedureRepo.CreateProcedureInTx(context.Background(), nil, &entities.MaintenanceProcedure{
		EquipmentID:    equipmentID,
		Name:           "Регламент",
		IsFromStandard: true,
	})
	return env.procedureRepo.procedures[id]
}

func TestCreateEquipment(t *testing.T) {
	env := newEquipmentTestEnv()

	created, err := env.svc.CreateEquipment(context.Background(), 77, dto.CreateEquipmentDTO{
		Name:                     "Насос питательный",
		ProjectID:                1,
		EquipmentModelID:         1,
		ManufacturerID:           2,
		EquipmentCategoryGroupID: 3,
		StandardCategoryGroupID:  10,
	})
	require.NoError(t, err)

	assert.Equal(t, constants.EquipmentStateDraft, created.State, "новое оборудование создаётся черновиком")
	assert.True(t, created.IsDeletable)
	assert.False(t, created.IsReadonly)
	assert.EqualValues(t, 30, created.ProjectCategoryID, "категория проекта денормализуется из группы")
	assert.EqualValues(t, 5, created.StandardCategoryID, "стандартная категория денормализуется из группы шаблонов")

	assert.Equal(t, []uint64{created.ID}, env.cloner.instantiated, "клонирование шаблонов запускается один раз")
	assert.Equal(t, 1, env.projectSvc.touchedCount, "создание сдвигает глобальную отметку проекта")
}

func TestCreateEquipmentProjectArchived(t *testing.T) {
	env := newEquipmentTestEnv()

	_, err := env.svc.CreateEquipment(context.Background(), 77, dto.CreateEquipmentDTO{
		Name:                     "Насос",
		ProjectID:                2,
		EquipmentModelID:         1,
		ManufacturerID:           2,
		EquipmentCategoryGroupID: 3,
		StandardCategoryGroupID:  10,
	})
	assert.ErrorIs(t, err, apperrors.ErrProjectArchived)
}

func TestCreateEquipmentAccessDenied(t *testing.T) {
	env := newEquipmentTestEnv()
	env.projectSvc.deniedUsers[99] = true

	_, err := env.svc.CreateEquipment(context.Background(), 99, dto.CreateEquipmentDTO{
		Name:                     "Насос",
		ProjectID:                1,
		EquipmentModelID:         1,
		ManufacturerID:           2,
		EquipmentCategoryGroupID: 3,
		StandardCategoryGroupID:  10,
	})
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
}

func TestCreateEquipmentSkipsMissingFiles(t *testing.T) {
	env := newEquipmentTestEnv()
	env.fileRepo.existing[1] = true
	env.fileRepo.existing[2] = true

	_, err := env.svc.CreateEquipment(context.Background(), 77, dto.CreateEquipmentDTO{
		Name:                     "Насос",
		ProjectID:                1,
		EquipmentModelID:         1,
		ManufacturerID:           2,
		EquipmentCategoryGroupID: 3,
		StandardCategoryGroupID:  10,
		MediaFileIDs:             []uint64{1, 2, 999},
	})
	require.NoError(t, err, "несуществующий файл не должен ронять создание")
	assert.Equal(t, []uint64{1, 2}, env.fileRepo.attached["media"], "привязываются только существующие файлы")
}

func TestDisableEquipmentImmediate(t *testing.T) {
	env := newEquipmentTestEnv()
	equipment := env.addEquipment(&entities.Equipment{Name: "Насос", State: constants.EquipmentStateActive})
	procedure := env.addProcedure(equipment.ID)

	require.NoError(t, env.svc.DisableEquipment(context.Background(), 77, equipment.ID, time.Now()))

	stored := env.equipmentRepo.items[equipment.ID]
	assert.Equal(t, constants.EquipmentStateDisabled, stored.State)
	assert.True(t, stored.IsReadonly)
	assert.Nil(t, stored.ToggleDate)

	assert.True(t, procedure.IsDisabled, "регламент отключается каскадом в тот же день")
	assert.Nil(t, procedure.ToggleDate)
}

func TestDisableEquipmentDeferred(t *testing.T) {
	env := newEquipmentTestEnv()
	equipment := env.addEquipment(&entities.Equipment{Name: "Насос", State: constants.EquipmentStateActive})
	procedure := env.addProcedure(equipment.ID)

	future := time.Now().AddDate(0, 0, 5)
	require.NoError(t, env.svc.DisableEquipment(context.Background(), 77, equipment.ID, future))

	stored := env.equipmentRepo.items[equipment.ID]
	assert.Equal(t, constants.EquipmentStateActive, stored.State, "состояние не меняется до свипа")
	assert.False(t, stored.IsReadonly)
	require.NotNil(t, stored.ToggleDate)
	assert.True(t, stored.ToggleDate.Equal(utils.StartOfDay(future)))

	// Каскад на регламенты выполняется сразу, пусть и с отложенной датой
	assert.False(t, procedure.IsDisabled)
	require.NotNil(t, procedure.ToggleDate)
}

func TestDisableEquipmentGuard(t *testing.T) {
	env := newEquipmentTestEnv()
	for _, state := range []string{
		constants.EquipmentStateDraft,
		constants.EquipmentStateDisabled,
		constants.EquipmentStateArchived,
	} {
		equipment := env.addEquipment(&entities.Equipment{Name: "Насос", State: state})
		err := env.svc.DisableEquipment(context.Background(), 77, equipment.ID, time.Now())
		assert.ErrorIs(t, err, apperrors.ErrOnlyActiveCanDisable, "state=%s", state)
	}
}

func TestEnableEquipmentImmediate(t *testing.T) {
	env := newEquipmentTestEnv()
	equipment := env.addEquipment(&entities.Equipment{
		Name:       "Насос",
		State:      constants.EquipmentStateDisabled,
		IsReadonly: true,
	})

	require.NoError(t, env.svc.EnableEquipment(context.Background(), 77, equipment.ID, time.Now()))

	stored := env.equipmentRepo.items[equipment.ID]
	assert.Equal(t, constants.EquipmentStateActive, stored.State)
	assert.False(t, stored.IsReadonly, "немедленное включение снимает блокировку")
	assert.Nil(t, stored.ToggleDate)
}

func TestEnableEquipmentFromArchived(t *testing.T) {
	env := newEquipmentTestEnv()
	equipment := env.addEquipment(&entities.Equipment{
		Name:       "Насос",
		State:      constants.EquipmentStateArchived,
		IsReadonly: true,
	})

	require.NoError(t, env.svc.EnableEquipment(context.Background(), 77, equipment.ID, time.Now()))
	assert.Equal(t, constants.EquipmentStateActive, env.equipmentRepo.items[equipment.ID].State)
}

func TestEnableEquipmentGuard(t *testing.T) {
	env := newEquipmentTestEnv()
	equipment := env.addEquipment(&entities.Equipment{Name: "Насос", State: constants.EquipmentStateActive})

	err := env.svc.EnableEquipment(context.Background(), 77, equipment.ID, time.Now())
	assert.ErrorIs(t, err, apperrors.ErrOnlyDisabledCanEnable)
}

func TestArchiveEquipment(t *testing.T) {
	env := newEquipmentTestEnv()

	for _, state := range []string{
		constants.EquipmentStateDraft,
		constants.EquipmentStateActive,
		constants.EquipmentStateDisabled,
	} {
		equipment := env.addEquipment(&entities.Equipment{Name: "Насос", State: state})
		procedure := env.addProcedure(equipment.ID)

		require.NoError(t, env.svc.ArchiveEquipment(context.Background(), 77, equipment.ID), "state=%s", state)

		stored := env.equipmentRepo.items[equipment.ID]
		assert.Equal(t, constants.EquipmentStateArchived, stored.State, "архивирование принимается из состояния %s", state)
		assert.True(t, stored.IsReadonly)
		assert.Nil(t, stored.ToggleDate, "архивирование никогда не откладывается")
		assert.True(t, procedure.IsDisabled, "регламенты отключаются немедленно")
	}
}

func TestUpdateEquipmentReadonlyRejected(t *testing.T) {
	env := newEquipmentTestEnv()
	equipment := env.addEquipment(&entities.Equipment{
		Name:       "Насос",
		State:      constants.EquipmentStateDisabled,
		IsReadonly: true,
	})

	name := "Новое имя"
	_, err := env.svc.UpdateEquipment(context.Background(), 77, equipment.ID, dto.UpdateEquipmentDTO{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrEquipmentReadonly)
}

func TestUpdateEquipmentStateRouting(t *testing.T) {
	env := newEquipmentTestEnv()
	equipment := env.addEquipment(&entities.Equipment{Name: "Насос", State: constants.EquipmentStateActive})

	target := constants.EquipmentStateDraft
	_, err := env.svc.UpdateEquipment(context.Background(), 77, equipment.ID, dto.UpdateEquipmentDTO{State: &target})
	assert.ErrorIs(t, err, apperrors.ErrInvalidStateTransition, "active -> draft запрещён таблицей маршрутизации")
}

func TestUpdateEquipmentActivation(t *testing.T) {
	env := newEquipmentTestEnv()
	equipment := env.addEquipment(&entities.Equipment{Name: "Насос", State: constants.EquipmentStateDraft})

	target := constants.EquipmentStateActive
	updated, err := env.svc.UpdateEquipment(context.Background(), 77, equipment.ID, dto.UpdateEquipmentDTO{State: &target})
	require.NoError(t, err)

	assert.Equal(t, constants.EquipmentStateActive, updated.State)
	assert.Equal(t, []uint64{equipment.ID}, env.pmpEventRepo.activated,
		"при активации черновые события переводятся в planned")
}

func TestUpdateEquipmentTouchesProject(t *testing.T) {
	env := newEquipmentTestEnv()
	equipment := env.addEquipment(&entities.Equipment{Name: "Насос", State: constants.EquipmentStateActive})

	name := "Насос питательный №2"
	_, err := env.svc.UpdateEquipment(context.Background(), 77, equipment.ID, dto.UpdateEquipmentDTO{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, 1, env.projectSvc.touchedCount, "обновление сдвигает глобальную отметку проекта")
}

func TestRemoveEquipmentGuards(t *testing.T) {
	env := newEquipmentTestEnv()

	notDeletable := env.addEquipment(&entities.Equipment{Name: "Насос", State: constants.EquipmentStateActive, IsDeletable: false})
	err := env.svc.RemoveEquipment(context.Background(), 77, notDeletable.ID)
	assert.ErrorIs(t, err, apperrors.ErrEquipmentNotDeletable)

	readonly := env.addEquipment(&entities.Equipment{Name: "Насос", State: constants.EquipmentStateDisabled, IsDeletable: true, IsReadonly: true})
	err = env.svc.RemoveEquipment(context.Background(), 77, readonly.ID)
	assert.ErrorIs(t, err, apperrors.ErrEquipmentReadonly)

	assert.Empty(t, env.equipmentRepo.deleted, "охраны срабатывают до обращения к хранилищу")
}

func TestRemoveEquipmentInUse(t *testing.T) {
	env := newEquipmentTestEnv()
	equipment := env.addEquipment(&entities.Equipment{Name: "Насос", State: constants.EquipmentStateActive, IsDeletable: true})
	env.equipmentRepo.inUse[equipment.ID] = true

	err := env.svc.RemoveEquipment(context.Background(), 77, equipment.ID)
	assert.ErrorIs(t, err, apperrors.ErrEquipmentInUse, "нарушение внешнего ключа транслируется в доменную ошибку")
}

func TestRemoveEquipment(t *testing.T) {
	env := newEquipmentTestEnv()
	equipment := env.addEquipment(&entities.Equipment{Name: "Насос", State: constants.EquipmentStateDraft, IsDeletable: true})

	require.NoError(t, env.svc.RemoveEquipment(context.Background(), 77, equipment.ID))
	assert.Equal(t, []uint64{equipment.ID}, env.equipmentRepo.deleted)
	assert.Equal(t, 1, env.projectSvc.touchedCount, "удаление сдвигает глобальную отметку проекта")
}

func TestLinkEquipment(t *testing.T) {
	env := newEquipmentTestEnv()
	a := env.addEquipment(&entities.Equipment{Name: "Насос А", State: constants.EquipmentStateActive})
	b := env.addEquipment(&entities.Equipment{Name: "Насос Б", State: constants.EquipmentStateActive})

	require.NoError(t, env.svc.LinkEquipment(context.Background(), 77, a.ID, b.ID))

	aLinks, _ := env.linkRepo.GetLinkedIDs(context.Background(), a.ID)
	bLinks, _ := env.linkRepo.GetLinkedIDs(context.Background(), b.ID)
	assert.Equal(t, []uint64{b.ID}, aLinks, "связь видна с обеих сторон")
	assert.Equal(t, []uint64{a.ID}, bLinks)

	// Повторное связывание идемпотентно
	require.NoError(t, env.svc.LinkEquipment(context.Background(), 77, a.ID, b.ID))
	aLinks, _ = env.linkRepo.GetLinkedIDs(context.Background(), a.ID)
	assert.Len(t, aLinks, 1)
}

func TestLinkEquipmentSelf(t *testing.T) {
	env := newEquipmentTestEnv()
	a := env.addEquipment(&entities.Equipment{Name: "Насос", State: constants.EquipmentStateActive})

	err := env.svc.LinkEquipment(context.Background(), 77, a.ID, a.ID)
	assert.ErrorIs(t, err, apperrors.ErrSelfLink)
}

func TestLinkEquipmentCrossProject(t *testing.T) {
	env := newEquipmentTestEnv()
	a := env.addEquipment(&entities.Equipment{Name: "Насос", State: constants.EquipmentStateActive, ProjectID: 1})
	b := env.addEquipment(&entities.Equipment{Name: "Чужой насос", State: constants.EquipmentStateActive, ProjectID: 2})

	err := env.svc.LinkEquipment(context.Background(), 77, a.ID, b.ID)
	assert.ErrorIs(t, err, apperrors.ErrCrossProjectLink)
}

func TestUnlinkEquipment(t *testing.T) {
	env := newEquipmentTestEnv()
	a := env.addEquipment(&entities.Equipment{Name: "Насос А", State: constants.EquipmentStateActive})
	b := env.addEquipment(&entities.Equipment{Name: "Насос Б", State: constants.EquipmentStateActive})

	require.NoError(t, env.svc.LinkEquipment(context.Background(), 77, a.ID, b.ID))
	require.NoError(t, env.svc.UnlinkEquipment(context.Background(), 77, a.ID, b.ID))

	aLinks, _ := env.linkRepo.GetLinkedIDs(context.Background(), a.ID)
	bLinks, _ := env.linkRepo.GetLinkedIDs(context.Background(), b.ID)
	assert.Empty(t, aLinks)
	assert.Empty(t, bLinks)

	// Отвязка несвязанной пары — не ошибка
	require.NoError(t, env.svc.UnlinkEquipment(context.Background(), 77, a.ID, b.ID))
}

func TestMakeReadonly(t *testing.T) {
	env := newEquipmentTestEnv()
	equipment := env.addEquipment(&entities.Equipment{Name: "Насос", State: constants.EquipmentStateDisabled})
	p1 := env.addProcedure(equipment.ID)
	p2 := env.addProcedure(equipment.ID)

	require.NoError(t, env.svc.MakeReadonly(context.Background(), 77, equipment.ID))

	assert.True(t, env.equipmentRepo.items[equipment.ID].IsReadonly)
	assert.ElementsMatch(t, []uint64{p1.ID, p2.ID}, env.pmpEventRepo.removedProcedure,
		"события убираются для каждого регламента")
}
