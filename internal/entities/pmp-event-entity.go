package entities

import (
	"time"

	"maintenance-system/pkg/types"
)

// PmpEventWindow — заявка на генерацию событий обслуживания для регламента.
// Сами даты событий считает отдельный сервис; ядро фиксирует только окно.
type PmpEventWindow struct {
	ID          uint64    `json:"id"`
	ProcedureID uint64    `json:"procedure_id"`
	EquipmentID uint64    `json:"equipment_id"`
	ProjectID   uint64    `json:"project_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`

	types.BaseEntity
}

type PmpEvent struct {
	ID          uint64    `json:"id"`
	ProcedureID uint64    `json:"procedure_id"`
	EquipmentID uint64    `json:"equipment_id"`
	ProjectID   uint64    `json:"project_id"`
	Status      string    `json:"status"`
	Date        time.Time `json:"date"`

	types.BaseEntity
}
