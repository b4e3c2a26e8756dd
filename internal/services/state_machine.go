package services

import (
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
)

// statesRouting описывает, какие значения state можно выставить через
// обычное обновление. Из draft оборудование можно активировать, всё
// остальное меняется только специализированными операциями
// (disable/enable/archive).
var statesRouting = map[string][]string{
	constants.EquipmentStateDraft:    {constants.EquipmentStateActive, constants.EquipmentStateDraft},
	constants.EquipmentStateActive:   {constants.EquipmentStateActive},
	constants.EquipmentStateDisabled: {constants.EquipmentStateDisabled},
	constants.EquipmentStateArchived: {constants.EquipmentStateArchived},
}

func canRouteState(from, to string) bool {
	for _, allowed := range statesRouting[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func checkCanDisable(state string) error {
	if state != constants.EquipmentStateActive {
		return apperrors.ErrOnlyActiveCanDisable
	}
	return nil
}

func checkCanEnable(state string) error {
	if state != constants.EquipmentStateDisabled && state != constants.EquipmentStateArchived {
		return apperrors.ErrOnlyDisabledCanEnable
	}
	return nil
}
