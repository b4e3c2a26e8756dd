package services

import (
	"context"
	"sort"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"

	"github.com/jackc/pgx/v5"
)

// Подделки репозиториев и сервисов-соседей для юнит-тестов.
// Держат всё в памяти и записывают вызовы.

type fakeTxManager struct{}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

// --- оборудование ---

type fakeEquipmentRepo struct {
	items         map[uint64]*entities.Equipment
	nextID        uint64
	inUse         map[uint64]bool // удаление упрётся в внешний ключ
	deleted       []uint64
	failLifecycle map[uint64]error // UpdateLifecycle* вернёт подставную ошибку
}

func newFakeEquipmentRepo() *fakeEquipmentRepo {
	return &fakeEquipmentRepo{
		items:         make(map[uint64]*entities.Equipment),
		nextID:        1,
		inUse:         make(map[uint64]bool),
		failLifecycle: make(map[uint64]error),
	}
}

func (r *fakeEquipmentRepo) add(e *entities.Equipment) *entities.Equipment {
	if e.ID == 0 {
		e.ID = r.nextID
		r.nextID++
	} else if e.ID >= r.nextID {
		r.nextID = e.ID + 1
	}
	r.items[e.ID] = e
	return e
}

func (r *fakeEquipmentRepo) GetEquipments(ctx context.Context, projectID uint64, filter types.Filter) ([]map[string]interface{}, uint64, error) {
	return nil, 0, nil
}

func (r *fakeEquipmentRepo) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	e, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrEquipmentNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *fakeEquipmentRepo) FindEquipmentForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	return r.FindEquipment(ctx, id)
}

func (r *fakeEquipmentRepo) CreateEquipmentInTx(ctx context.Context, tx pgx.Tx, equipment *entities.Equipment) (uint64, error) {
	copied := *equipment
	r.add(&copied)
	return copied.ID, nil
}

func (r *fakeEquipmentRepo) UpdateEquipment(ctx context.Context, id uint64, equipment *entities.Equipment) error {
	stored, ok := r.items[id]
	if !ok {
		return apperrors.ErrEquipmentNotFound
	}
	stored.Name = equipment.Name
	stored.State = equipment.State
	stored.EquipmentModelID = equipment.EquipmentModelID
	stored.ManufacturerID = equipment.ManufacturerID
	stored.CategoryGroupID = equipment.CategoryGroupID
	return nil
}

func (r *fakeEquipmentRepo) UpdateLifecycle(ctx context.Context, id uint64, state string, toggleDate *time.Time, isReadonly bool) error {
	if err := r.failLifecycle[id]; err != nil {
		return err
	}
	stored, ok := r.items[id]
	if !ok {
		return apperrors.ErrEquipmentNotFound
	}
	stored.State = state
	stored.ToggleDate = toggleDate
	stored.IsReadonly = isReadonly
	return nil
}

func (r *fakeEquipmentRepo) UpdateLifecycleInTx(ctx context.Context, tx pgx.Tx, id uint64, state string, toggleDate *time.Time, isReadonly bool) error {
	return r.UpdateLifecycle(ctx, id, state, toggleDate, isReadonly)
}

func (r *fakeEquipmentRepo) SetReadonly(ctx context.Context, id uint64) error {
	stored, ok := r.items[id]
	if !ok {
		return apperrors.ErrEquipmentNotFound
	}
	stored.IsReadonly = true
	return nil
}

func (r *fakeEquipmentRepo) DeleteEquipment(ctx context.Context, id uint64) error {
	if _, ok := r.items[id]; !ok {
		return apperrors.ErrEquipmentNotFound
	}
	if r.inUse[id] {
		return apperrors.ErrEquipmentInUse
	}
	delete(r.items, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeEquipmentRepo) FindDueToggles(ctx context.Context, day time.Time) ([]entities.Equipment, error) {
	var due []entities.Equipment
	for _, e := range r.items {
		if e.State == "archived" || e.ToggleDate == nil {
			continue
		}
		if e.ToggleDate.Equal(day) {
			due = append(due, *e)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ID < due[j].ID })
	return due, nil
}

// --- связи ---

type fakeLinkRepo struct {
	links map[uint64]map[uint64]bool
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: make(map[uint64]map[uint64]bool)}
}

func (r *fakeLinkRepo) addSide(a, b uint64) {
	if r.links[a] == nil {
		r.links[a] = make(map[uint64]bool)
	}
	r.links[a][b] = true
}

func (r *fakeLinkRepo) LinkInTx(ctx context.Context, tx pgx.Tx, sourceID, destinationID uint64) error {
	r.addSide(sourceID, destinationID)
	r.addSide(destinationID, sourceID)
	return nil
}

func (r *fakeLinkRepo) UnlinkInTx(ctx context.Context, tx pgx.Tx, sourceID, destinationID uint64) error {
	delete(r.links[sourceID], destinationID)
	delete(r.links[destinationID], sourceID)
	return nil
}

func (r *fakeLinkRepo) GetLinkedIDs(ctx context.Context, equipmentID uint64) ([]uint64, error) {
	var ids []uint64
	for id := range r.links[equipmentID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// --- справочники ---

type fakeReferenceRepo struct {
	models        map[uint64]*entities.EquipmentModel
	manufacturers map[uint64]*entities.Manufacturer
	groups        map[uint64]*entities.EquipmentCategoryGroup
}

func newFakeReferenceRepo() *fakeReferenceRepo {
	return &fakeReferenceRepo{
		models:        make(map[uint64]*entities.EquipmentModel),
		manufacturers: make(map[uint64]*entities.Manufacturer),
		groups:        make(map[uint64]*entities.EquipmentCategoryGroup),
	}
}

func (r *fakeReferenceRepo) FindEquipmentModel(ctx context.Context, id uint64) (*entities.EquipmentModel, error) {
	m, ok := r.models[id]
	if !ok {
		return nil, apperrors.ErrEquipmentModelNotFound
	}
	return m, nil
}

func (r *fakeReferenceRepo) FindManufacturer(ctx context.Context, id uint64) (*entities.Manufacturer, error) {
	m, ok := r.manufacturers[id]
	if !ok {
		return nil, apperrors.ErrManufacturerNotFound
	}
	return m, nil
}

func (r *fakeReferenceRepo) FindCategoryGroup(ctx context.Context, id uint64) (*entities.EquipmentCategoryGroup, error) {
	g, ok := r.groups[id]
	if !ok {
		return nil, apperrors.ErrCategoryGroupNotFound
	}
	return g, nil
}

// --- каталог стандартных шаблонов ---

type fakeStandardRepo struct {
	groups     map[uint64]*entities.StandardEquipmentCategoryGroup
	procedures map[uint64][]entities.StandardProcedure
	operations map[uint64][]entities.StandardOperation
	labels     map[uint64][]entities.StandardOperationLabel
	parameters map[uint64][]entities.StandardOperationParameter
}

func newFakeStandardRepo() *fakeStandardRepo {
	return &fakeStandardRepo{
		groups:     make(map[uint64]*entities.StandardEquipmentCategoryGroup),
		procedures: make(map[uint64][]entities.StandardProcedure),
		operations: make(map[uint64][]entities.StandardOperation),
		labels:     make(map[uint64][]entities.StandardOperationLabel),
		parameters: make(map[uint64][]entities.StandardOperationParameter),
	}
}

func (r *fakeStandardRepo) FindCategoryGroup(ctx context.Context, id uint64) (*entities.StandardEquipmentCategoryGroup, error) {
	g, ok := r.groups[id]
	if !ok {
		return nil, apperrors.ErrStandardCategoryGroupNotFound
	}
	return g, nil
}

func (r *fakeStandardRepo) GetProceduresByCategoryGroup(ctx context.Context, categoryGroupID uint64) ([]entities.StandardProcedure, error) {
	return r.procedures[categoryGroupID], nil
}

func (r *fakeStandardRepo) GetOperationsByProcedure(ctx context.Context, procedureID uint64) ([]entities.StandardOperation, error) {
	return r.operations[procedureID], nil
}

func (r *fakeStandardRepo) GetLabelsByOperation(ctx context.Context, operationID uint64) ([]entities.StandardOperationLabel, error) {
	return r.labels[operationID], nil
}

func (r *fakeStandardRepo) GetParametersByOperation(ctx context.Context, operationID uint64) ([]entities.StandardOperationParameter, error) {
	return r.parameters[operationID], nil
}

// --- регламенты обслуживания ---

type fakeProcedureRepo struct {
	nextID     uint64
	procedures map[uint64]*entities.MaintenanceProcedure
	operations map[uint64]*entities.MaintenanceOperation
	labels     []entities.MaintenanceOperationLabel
	parameters []entities.MaintenanceOperationParameter
}

func newFakeProcedureRepo() *fakeProcedureRepo {
	return &fakeProcedureRepo{
		nextID:     1,
		procedures: make(map[uint64]*entities.MaintenanceProcedure),
		operations: make(map[uint64]*entities.MaintenanceOperation),
	}
}

func (r *fakeProcedureRepo) FindProcedure(ctx context.Context, id uint64) (*entities.MaintenanceProcedure, error) {
	p, ok := r.procedures[id]
	if !ok {
		return nil, apperrors.ErrProcedureNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProcedureRepo) FindProceduresByEquipment(ctx context.Context, equipmentID uint64) ([]entities.MaintenanceProcedure, error) {
	var result []entities.MaintenanceProcedure
	for _, p := range r.procedures {
		if p.EquipmentID == equipmentID {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeProcedureRepo) CreateProcedureInTx(ctx context.Context, tx pgx.Tx, procedure *entities.MaintenanceProcedure) (uint64, error) {
	copied := *procedure
	copied.ID = r.nextID
	r.nextID++
	r.procedures[copied.ID] = &copied
	return copied.ID, nil
}

func (r *fakeProcedureRepo) CreateOperationInTx(ctx context.Context, tx pgx.Tx, operation *entities.MaintenanceOperation) (uint64, error) {
	copied := *operation
	copied.ID = r.nextID
	r.nextID++
	r.operations[copied.ID] = &copied
	return copied.ID, nil
}

func (r *fakeProcedureRepo) CreateLabelInTx(ctx context.Context, tx pgx.Tx, label *entities.MaintenanceOperationLabel) error {
	r.labels = append(r.labels, *label)
	return nil
}

func (r *fakeProcedureRepo) CreateParameterInTx(ctx context.Context, tx pgx.Tx, parameter *entities.MaintenanceOperationParameter) error {
	r.parameters = append(r.parameters, *parameter)
	return nil
}

func (r *fakeProcedureRepo) SetDisabled(ctx context.Context, id uint64, isDisabled bool, toggleDate *time.Time) error {
	p, ok := r.procedures[id]
	if !ok {
		return apperrors.ErrProcedureNotFound
	}
	p.IsDisabled = isDisabled
	p.ToggleDate = toggleDate
	return nil
}

func (r *fakeProcedureRepo) SetDisabledInTx(ctx context.Context, tx pgx.Tx, id uint64, isDisabled bool, toggleDate *time.Time) error {
	return r.SetDisabled(ctx, id, isDisabled, toggleDate)
}

// --- события обслуживания ---

type fakePmpEventRepo struct {
	windows          []entities.PmpEventWindow
	activated        []uint64
	removedProcedure []uint64
}

func (r *fakePmpEventRepo) CreateWindowInTx(ctx context.Context, tx pgx.Tx, window *entities.PmpEventWindow) (uint64, error) {
	r.windows = append(r.windows, *window)
	return uint64(len(r.windows)), nil
}

func (r *fakePmpEventRepo) ChangeEventsDraftToPlanned(ctx context.Context, equipmentID uint64) (int64, error) {
	r.activated = append(r.activated, equipmentID)
	return 1, nil
}

func (r *fakePmpEventRepo) RemoveEventsForProcedure(ctx context.Context, procedureID uint64) (int64, error) {
	r.removedProcedure = append(r.removedProcedure, procedureID)
	return 1, nil
}

// --- входы, файлы, размещение ---

type fakeInputRepo struct {
	byEquipment map[uint64][]entities.EquipmentInput
}

func newFakeInputRepo() *fakeInputRepo {
	return &fakeInputRepo{byEquipment: make(map[uint64][]entities.EquipmentInput)}
}

func (r *fakeInputRepo) GetByEquipment(ctx context.Context, equipmentID uint64) ([]entities.EquipmentInput, error) {
	return r.byEquipment[equipmentID], nil
}

func (r *fakeInputRepo) ReplaceInputsInTx(ctx context.Context, tx pgx.Tx, equipmentID uint64, inputs []entities.EquipmentInput) error {
	r.byEquipment[equipmentID] = inputs
	return nil
}

type fakeFileRepo struct {
	existing map[uint64]bool
	attached map[string][]uint64 // kind -> ids (последняя привязка)
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{
		existing: make(map[uint64]bool),
		attached: make(map[string][]uint64),
	}
}

func (r *fakeFileRepo) FindExistingFileIDs(ctx context.Context, ids []uint64) ([]uint64, error) {
	var found []uint64
	for _, id := range ids {
		if r.existing[id] {
			found = append(found, id)
		}
	}
	return found, nil
}

func (r *fakeFileRepo) GetEquipmentFiles(ctx context.Context, equipmentID uint64, kind string) ([]entities.File, error) {
	return nil, nil
}

func (r *fakeFileRepo) ReplaceEquipmentFilesInTx(ctx context.Context, tx pgx.Tx, equipmentID uint64, kind string, fileIDs []uint64) error {
	r.attached[kind] = fileIDs
	return nil
}

type fakeBuildingSvc struct {
	replaced map[uint64][]dto.LocationDTO
}

func newFakeBuildingSvc() *fakeBuildingSvc {
	return &fakeBuildingSvc{replaced: make(map[uint64][]dto.LocationDTO)}
}

func (s *fakeBuildingSvc) GetEquipmentLocations(ctx context.Context, equipmentID uint64) ([]entities.Location, error) {
	return nil, nil
}

func (s *fakeBuildingSvc) ReplaceEquipmentLocationsInTx(ctx context.Context, tx pgx.Tx, equipmentID, projectID uint64, locations []dto.LocationDTO) error {
	s.replaced[equipmentID] = locations
	return nil
}

// --- проект ---

type fakeProjectSvc struct {
	projects     map[uint64]*entities.Project
	deniedUsers  map[uint64]bool
	touchedCount int
}

func newFakeProjectSvc() *fakeProjectSvc {
	return &fakeProjectSvc{
		projects:    make(map[uint64]*entities.Project),
		deniedUsers: make(map[uint64]bool),
	}
}

func (s *fakeProjectSvc) FindProject(ctx context.Context, id uint64) (*entities.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, apperrors.ErrProjectNotFound
	}
	return p, nil
}

func (s *fakeProjectSvc) FindWritableProject(ctx context.Context, id uint64) (*entities.Project, error) {
	p, err := s.FindProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == "archived" {
		return nil, apperrors.ErrProjectArchived
	}
	return p, nil
}

func (s *fakeProjectSvc) CheckUserAccess(ctx context.Context, projectID, userID uint64) error {
	if s.deniedUsers[userID] {
		return apperrors.ErrAccessDenied
	}
	return nil
}

func (s *fakeProjectSvc) TouchGlobalUpdatedAt(ctx context.Context, id uint64) error {
	s.touchedCount++
	return nil
}

// --- клонировщик ---

type fakeCloner struct {
	instantiated []uint64
}

func (c *fakeCloner) Instantiate(ctx context.Context, equipment *entities.Equipment, project *entities.Project) error {
	c.instantiated = append(c.instantiated, equipment.ID)
	return nil
}

var (
	_ repositories.EquipmentRepositoryInterface            = (*fakeEquipmentRepo)(nil)
	_ repositories.EquipmentLinkRepositoryInterface        = (*fakeLinkRepo)(nil)
	_ repositories.EquipmentReferenceRepositoryInterface   = (*fakeReferenceRepo)(nil)
	_ repositories.StandardProcedureRepositoryInterface    = (*fakeStandardRepo)(nil)
	_ repositories.MaintenanceProcedureRepositoryInterface = (*fakeProcedureRepo)(nil)
	_ repositories.PmpEventRepositoryInterface             = (*fakePmpEventRepo)(nil)
	_ repositories.EquipmentInputRepositoryInterface       = (*fakeInputRepo)(nil)
	_ repositories.FileRepositoryInterface                 = (*fakeFileRepo)(nil)
	_ repositories.TxManagerInterface                      = (*fakeTxManager)(nil)
	_ ProjectServiceInterface                              = (*fakeProjectSvc)(nil)
	_ BuildingServiceInterface                             = (*fakeBuildingSvc)(nil)
	_ EquipmentClonerInterface                             = (*fakeCloner)(nil)
)
