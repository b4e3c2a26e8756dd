package entities

import "maintenance-system/pkg/types"

// Стандартные шаблоны уровня организации. Только для чтения —
// движок клонирования копирует их в проектные регламенты.

type StandardEquipmentCategoryGroup struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	CategoryID uint64 `json:"category_id"`

	types.BaseEntity
}

type StandardProcedure struct {
	ID              uint64 `json:"id"`
	CategoryGroupID uint64 `json:"category_group_id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Periodicity     string `json:"periodicity"`

	types.BaseEntity
}

type StandardOperation struct {
	ID          uint64 `json:"id"`
	ProcedureID uint64 `json:"procedure_id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Position    int    `json:"position"`

	types.BaseEntity
}

type StandardOperationLabel struct {
	ID          uint64 `json:"id"`
	OperationID uint64 `json:"operation_id"`
	Name        string `json:"name"`

	types.BaseEntity
}

type StandardOperationParameter struct {
	ID          uint64   `json:"id"`
	OperationID uint64   `json:"operation_id"`
	Name        string   `json:"name"`
	MinValue    *float64 `json:"min_value"`
	MaxValue    *float64 `json:"max_value"`
	UnitID      uint64   `json:"unit_id"`

	types.BaseEntity
}
