package dto

import "time"

type ToggleProcedureDTO struct {
	EffectiveDate time.Time `json:"effective_date" validate:"required"`
}
