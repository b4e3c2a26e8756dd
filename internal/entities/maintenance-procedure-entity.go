package entities

import (
	"time"

	"maintenance-system/pkg/types"
)

type MaintenanceProcedure struct {
	ID             uint64     `json:"id"`
	EquipmentID    uint64     `json:"equipment_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Periodicity    string     `json:"periodicity"`
	IsFromStandard bool       `json:"is_from_standard"` // неизменяемо после создания
	IsDisabled     bool       `json:"is_disabled"`
	ToggleDate     *time.Time `json:"toggle_date"`

	types.BaseEntity

	// Поля для связанных данных (не колонки в таблице)
	Operations []MaintenanceOperation `db:"-" json:"operations,omitempty"`
}

type MaintenanceOperation struct {
	ID          uint64 `json:"id"`
	ProcedureID uint64 `json:"procedure_id"`
	Name        string `json:"name"`
	Type        string `json:"type"` // visual | parameter; фиксируется при клонировании
	Position    int    `json:"position"`

	types.BaseEntity

	// Заполняется ровно одна из двух коллекций — по типу операции
	Labels     []MaintenanceOperationLabel     `db:"-" json:"labels,omitempty"`
	Parameters []MaintenanceOperationParameter `db:"-" json:"parameters,omitempty"`
}

type MaintenanceOperationLabel struct {
	ID          uint64 `json:"id"`
	OperationID uint64 `json:"operation_id"`
	Name        string `json:"name"`

	types.BaseEntity
}

type MaintenanceOperationParameter struct {
	ID          uint64   `json:"id"`
	OperationID uint64   `json:"operation_id"`
	Name        string   `json:"name"`
	MinValue    *float64 `json:"min_value"`
	MaxValue    *float64 `json:"max_value"`
	UnitID      uint64   `json:"unit_id"`

	types.BaseEntity
}
