package constants

// --- СОСТОЯНИЯ ОБОРУДОВАНИЯ (совпадают со значениями в БД) ---
const (
	EquipmentStateDraft    = "draft"
	EquipmentStateActive   = "active"
	EquipmentStateDisabled = "disabled"
	EquipmentStateArchived = "archived"
)

// --- ТИПЫ ОПЕРАЦИЙ ОБСЛУЖИВАНИЯ ---
const (
	OperationTypeVisual    = "visual"
	OperationTypeParameter = "parameter"
)

// --- СТАТУСЫ ПРОЕКТОВ ---
const (
	ProjectStatusActive   = "active"
	ProjectStatusArchived = "archived"
)

// --- СТАТУСЫ СОБЫТИЙ ОБСЛУЖИВАНИЯ ---
const (
	PmpEventStatusDraft   = "draft"
	PmpEventStatusPlanned = "planned"
)

// --- ОБЛАСТИ РАЗМЕЩЕНИЯ ---
const (
	LocationScopeEquipment = "equipment"
)

// Горизонт генерации событий обслуживания от даты старта проекта (в годах).
const EventWindowYears = 2
