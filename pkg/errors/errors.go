package errors

import "fmt"

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")

	// Авторизация
	ErrEmptyAuthHeader   = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader = fmt.Errorf("неверный формат заголовка авторизации")
	ErrAccessDenied      = fmt.Errorf("нет доступа к проекту")
	ErrForbidden         = fmt.Errorf("доступ запрещён")

	// Контекст
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID не найден в контексте запроса")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")

	// Справочники и шаблоны
	ErrEquipmentNotFound             = fmt.Errorf("оборудование не найдено")
	ErrSourceEquipmentNotFound       = fmt.Errorf("исходное оборудование не найдено")
	ErrDestinationEquipmentNotFound  = fmt.Errorf("целевое оборудование не найдено")
	ErrEquipmentModelNotFound        = fmt.Errorf("модель оборудования не найдена")
	ErrManufacturerNotFound          = fmt.Errorf("производитель не найден")
	ErrCategoryGroupNotFound         = fmt.Errorf("группа категорий оборудования не найдена")
	ErrStandardCategoryGroupNotFound = fmt.Errorf("стандартная группа категорий не найдена")
	ErrProcedureNotFound             = fmt.Errorf("регламент обслуживания не найден")
	ErrProjectNotFound               = fmt.Errorf("проект не найден")

	// Жизненный цикл оборудования
	ErrInvalidStateTransition = fmt.Errorf("недопустимый переход состояния оборудования")
	ErrOnlyActiveCanDisable   = fmt.Errorf("отключить можно только активное оборудование")
	ErrOnlyDisabledCanEnable  = fmt.Errorf("включить можно только отключённое или архивное оборудование")
	ErrEquipmentReadonly      = fmt.Errorf("оборудование доступно только для чтения")
	ErrProjectArchived        = fmt.Errorf("проект архивирован, изменение оборудования запрещено")
	ErrEquipmentNotDeletable  = fmt.Errorf("оборудование не подлежит удалению")
	ErrEquipmentInUse         = fmt.Errorf("невозможно удалить: оборудование используется другими записями")

	// Связи оборудования
	ErrCrossProjectLink = fmt.Errorf("оборудование должно принадлежать одному проекту")
	ErrSelfLink         = fmt.Errorf("оборудование нельзя связать с самим собой")
)

// HttpError несёт HTTP-код и пользовательское сообщение до контроллера,
// не теряя исходную ошибку.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details map[string]interface{}) *HttpError {
	return &HttpError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: details,
	}
}
