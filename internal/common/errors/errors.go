// Package errors 定义业务错误码和错误处理
package errors

import (
	"fmt"
)

// AppError 应用错误
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新的应用错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithMessage 修改错误消息
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: message,
		Err:     e.Err,
	}
}

// WithError 添加原始错误
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// 通用错误码 (1000-1999)
var (
	ErrUnknown          = New(1000, "Невідома помилка")
	ErrInvalidParams    = New(1001, "Некоректні параметри запиту")
	ErrNotFound         = New(1002, "Ресурс не знайдено")
	ErrAlreadyExists    = New(1003, "Ресурс вже існує")
	ErrDatabaseError    = New(1004, "Помилка бази даних")
	ErrCacheError       = New(1005, "Помилка кешу")
	ErrInternalError    = New(1006, "Внутрішня помилка сервера")
	ErrExternalService  = New(1007, "Помилка зовнішнього сервісу")
	ErrRateLimitExceed  = New(1008, "Забагато запитів")
	ErrOperationFailed  = New(1009, "Операція не виконана")
	ErrStoreUnavailable = New(1010, "Сховище даних недоступне")
)

// 客户错误码 (3000-3999)
var (
	ErrCustomerNotFound  = New(3000, "Клієнта не знайдено")
	ErrCustomerExists    = New(3001, "Клієнт з таким телефоном вже існує")
	ErrPhoneInvalid      = New(3002, "Некоректний номер телефону")
	ErrCategoryNotFound  = New(3003, "Категорію клієнтів не знайдено")
	ErrCategoryHasLinks  = New(3004, "Категорія використовується клієнтами")
)

// 配送区错误码 (4000-4999)
var (
	ErrZoneNotFound       = New(4000, "Зону доставки не знайдено")
	ErrZoneInvalid        = New(4001, "Некоректні параметри зони доставки")
	ErrZoneRadiusRequired = New(4002, "Для зони типу radius потрібен радіус у кілометрах")
	ErrZoneGeometry       = New(4003, "Некоректна геометрія зони")
	ErrZoneOutOfBounds    = New(4004, "Координати зони виходять за допустимі межі")
	ErrCenterNotSet       = New(4005, "Центр доставки не налаштовано")
	ErrAddressNotFound    = New(4006, "Адресу не вдалося геокодувати")
)

// 订单错误码 (5000-5999)
var (
	ErrOrderNotFound      = New(5000, "Замовлення не знайдено")
	ErrOrderStatusError   = New(5001, "Недопустимий перехід статусу замовлення")
	ErrOrderEmpty         = New(5002, "Замовлення не містить позицій")
	ErrOrderMinAmount     = New(5003, "Суму замовлення менша за мінімальну для зони")
	ErrDeliveryNotAvail   = New(5004, "Доставка за цією адресою недоступна")
	ErrPaymentMethodError = New(5005, "Невідомий спосіб оплати")
	ErrTableInvalid       = New(5006, "Некоректний номер столика")
)

// 菜单错误码 (6000-6999)
var (
	ErrProductNotFound     = New(6000, "Страву не знайдено")
	ErrProductUnavailable  = New(6001, "Страва тимчасово недоступна")
	ErrMenuCategoryMissing = New(6002, "Категорію меню не знайдено")
	ErrModifierNotFound    = New(6003, "Групу модифікаторів не знайдено")
	ErrComboNotFound       = New(6004, "Комбо не знайдено")
	ErrMenuItemNotFound    = New(6005, "Позицію меню не знайдено")
	ErrCategoryHasProducts = New(6006, "Категорія містить страви і не може бути видалена")
)

// 营销错误码 (9000-9999)
var (
	ErrPromoNotFound     = New(9000, "Промокод не знайдено")
	ErrPromoInactive     = New(9001, "Промокод неактивний")
	ErrPromoNotStarted   = New(9002, "Промокод ще не діє")
	ErrPromoExpired      = New(9003, "Термін дії промокоду закінчився")
	ErrPromoLimitReached = New(9004, "Ліміт використань промокоду вичерпано")
	ErrPromoMinOrder     = New(9005, "Суму замовлення менша за мінімальну для промокоду")
	ErrPromoExists       = New(9006, "Промокод з таким кодом вже існує")
)

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError 获取应用错误
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrUnknown.WithError(err)
}
