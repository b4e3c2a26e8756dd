package services

import (
	"context"
	"testing"
	"time"

	"maintenance-system/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProcedureDisableImmediate(t *testing.T) {
	procedureRepo := newFakeProcedureRepo()
	id, _ := procedureRepo.CreateProcedureInTx(context.Background(), nil, &entities.MaintenanceProcedure{
		EquipmentID: 1, Name: "Осмотр",
	})

	svc := NewMaintenanceProcedureService(procedureRepo, zap.NewNop())
	require.NoError(t, svc.DisableProcedure(context.Background(), 77, id, time.Now()))

	stored := procedureRepo.procedures[id]
	assert.True(t, stored.IsDisabled)
	assert.Nil(t, stored.ToggleDate)
}

func TestProcedureDisableDeferred(t *testing.T) {
	procedureRepo := newFakeProcedureRepo()
	id, _ := procedureRepo.CreateProcedureInTx(context.Background(), nil, &entities.MaintenanceProcedure{
		EquipmentID: 1, Name: "Осмотр",
	})

	svc := NewMaintenanceProcedureService(procedureRepo, zap.NewNop())
	require.NoError(t, svc.DisableProcedure(context.Background(), 77, id, time.Now().AddDate(0, 0, 3)))

	stored := procedureRepo.procedures[id]
	assert.False(t, stored.IsDisabled, "отложенное отключение не меняет флаг сразу")
	require.NotNil(t, stored.ToggleDate)
}

func TestProcedureEnableImmediate(t *testing.T) {
	procedureRepo := newFakeProcedureRepo()
	id, _ := procedureRepo.CreateProcedureInTx(context.Background(), nil, &entities.MaintenanceProcedure{
		EquipmentID: 1, Name: "Осмотр", IsDisabled: true,
	})

	svc := NewMaintenanceProcedureService(procedureRepo, zap.NewNop())
	require.NoError(t, svc.EnableProcedure(context.Background(), 77, id, time.Now()))

	stored := procedureRepo.procedures[id]
	assert.False(t, stored.IsDisabled)
	assert.Nil(t, stored.ToggleDate)
}

func TestCascadeDisable(t *testing.T) {
	procedureRepo := newFakeProcedureRepo()
	var ids []uint64
	for i := 0; i < 3; i++ {
		id, _ := procedureRepo.CreateProcedureInTx(context.Background(), nil, &entities.MaintenanceProcedure{
			EquipmentID: 5, Name: "Осмотр",
		})
		ids = append(ids, id)
	}
	// Регламент другого оборудования каскад не задевает
	otherID, _ := procedureRepo.CreateProcedureInTx(context.Background(), nil, &entities.MaintenanceProcedure{
		EquipmentID: 6, Name: "Чужой",
	})

	svc := NewMaintenanceProcedureService(procedureRepo, zap.NewNop())
	require.NoError(t, svc.CascadeDisable(context.Background(), 77, 5, time.Now()))

	for _, id := range ids {
		assert.True(t, procedureRepo.procedures[id].IsDisabled)
	}
	assert.False(t, procedureRepo.procedures[otherID].IsDisabled)
}
