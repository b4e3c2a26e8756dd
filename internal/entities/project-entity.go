package entities

import (
	"time"

	"maintenance-system/pkg/types"
)

type Project struct {
	ID              uint64     `json:"id"`
	Name            string     `json:"name"`
	Status          string     `json:"status"`
	StartDate       time.Time  `json:"start_date"`
	GlobalUpdatedAt *time.Time `json:"global_updated_at"`

	types.BaseEntity
}
