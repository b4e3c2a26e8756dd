package dto

import "time"

type LocationDTO struct {
	ProjectID uint64 `json:"project_id"`
	Building  string `json:"building" validate:"required"`
	Level     string `json:"level"`
	Room      string `json:"room"`
}

type EquipmentInputDTO struct {
	Name   string `json:"name" validate:"required"`
	Value  string `json:"value"`
	UnitID uint64 `json:"unit_id" validate:"required,gt=0"`
}

type CreateEquipmentDTO struct {
	Name      string `json:"name" validate:"required"`
	ProjectID uint64 `json:"project_id" validate:"required,gt=0"`

	EquipmentModelID         uint64 `json:"equipment_model_id" validate:"required,gt=0"`
	ManufacturerID           uint64 `json:"manufacturer_id" validate:"required,gt=0"`
	EquipmentCategoryGroupID uint64 `json:"equipment_category_group_id" validate:"required,gt=0"`
	StandardCategoryGroupID  uint64 `json:"standard_category_group_id" validate:"required,gt=0"`

	LocationDTOs         *[]LocationDTO      `json:"location_dtos,omitempty"`
	Inputs               []EquipmentInputDTO `json:"inputs,omitempty"`
	MediaFileIDs         []uint64            `json:"media_file_ids,omitempty"`
	DocumentationFileIDs []uint64            `json:"documentation_file_ids,omitempty"`
}

type UpdateEquipmentDTO struct {
	Name      *string `json:"name,omitempty"       validate:"omitempty"`
	State     *string `json:"state,omitempty"      validate:"omitempty,oneof=draft active disabled archived"`
	ProjectID uint64  `json:"project_id,omitempty" validate:"omitempty,gt=0"`

	EquipmentModelID         *uint64 `json:"equipment_model_id,omitempty"          validate:"omitempty,gt=0"`
	ManufacturerID           *uint64 `json:"manufacturer_id,omitempty"             validate:"omitempty,gt=0"`
	EquipmentCategoryGroupID *uint64 `json:"equipment_category_group_id,omitempty" validate:"omitempty,gt=0"`

	LocationDTOs         *[]LocationDTO       `json:"location_dtos,omitempty"`
	Inputs               *[]EquipmentInputDTO `json:"inputs,omitempty"`
	MediaFileIDs         []uint64             `json:"media_file_ids,omitempty"`
	DocumentationFileIDs []uint64             `json:"documentation_file_ids,omitempty"`
}

// ToggleEquipmentDTO — тело запросов disable/enable; дата определяет,
// немедленный переход или отложенный.
type ToggleEquipmentDTO struct {
	ToggleDate time.Time `json:"toggle_date" validate:"required"`
}

type LinkEquipmentDTO struct {
	DestinationEquipmentID uint64 `json:"destination_equipment_id" validate:"required,gt=0"`
}
