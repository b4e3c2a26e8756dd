package entities

import (
	"time"

	"maintenance-system/pkg/types"
)

type Equipment struct {
	ID          uint64     `json:"id"`
	Name        string     `json:"name"`
	State       string     `json:"state"`
	ToggleDate  *time.Time `json:"toggle_date"` // не nil, только пока ожидается отложенный переход
	IsReadonly  bool       `json:"is_readonly"`
	IsDeletable bool       `json:"is_deletable"`

	ProjectID               uint64 `json:"project_id"`
	EquipmentModelID        uint64 `json:"equipment_model_id"`
	ManufacturerID          uint64 `json:"manufacturer_id"`
	CategoryGroupID         uint64 `json:"category_group_id"`
	ProjectCategoryID       uint64 `json:"project_category_id"` // денормализовано из группы категорий при создании
	StandardCategoryGroupID uint64 `json:"standard_category_group_id"`
	StandardCategoryID      uint64 `json:"standard_category_id"`

	types.BaseEntity

	// Поля для связанных данных (не колонки в таблице)
	Project               *Project               `db:"-" json:"project,omitempty"`
	MaintenanceProcedures []MaintenanceProcedure `db:"-" json:"maintenance_procedures,omitempty"`
	EquipmentInputs       []EquipmentInput       `db:"-" json:"equipment_inputs,omitempty"`
	Locations             []Location             `db:"-" json:"locations,omitempty"`
	MediaFiles            []File                 `db:"-" json:"media_files,omitempty"`
	DocumentationFiles    []File                 `db:"-" json:"documentation_files,omitempty"`
	LinkedEquipmentIDs    []uint64               `db:"-" json:"linked_equipment_ids,omitempty"`
}

type EquipmentModel struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`

	types.BaseEntity
}

type Manufacturer struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`

	types.BaseEntity
}

// EquipmentCategoryGroup — проектная группа категорий; ссылка на категорию
// проекта денормализуется в оборудование при создании.
type EquipmentCategoryGroup struct {
	ID                uint64 `json:"id"`
	Name              string `json:"name"`
	ProjectCategoryID uint64 `json:"project_category_id"`

	types.BaseEntity
}

type EquipmentProjectCategory struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	ProjectID uint64 `json:"project_id"`

	types.BaseEntity
}

type EquipmentInput struct {
	ID          uint64 `json:"id"`
	EquipmentID uint64 `json:"equipment_id"`
	Name        string `json:"name"`
	Value       string `json:"value"`
	UnitID      uint64 `json:"unit_id"`

	types.BaseEntity
}

type Unit struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type File struct {
	ID   uint64 `json:"id"`
	UUID string `json:"uuid"`
	Name string `json:"name"`
	Path string `json:"path"`

	types.BaseEntity
}

type Location struct {
	ID        uint64 `json:"id"`
	ProjectID uint64 `json:"project_id"`
	Scope     string `json:"scope"`
	Building  string `json:"building"`
	Level     string `json:"level"`
	Room      string `json:"room"`

	types.BaseEntity
}
