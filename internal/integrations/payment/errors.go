package payment

import "errors"

var (
	// ErrInvalidAmount возвращается, если сумма списания не положительна
	ErrInvalidAmount = errors.New("payment: invalid charge amount")

	// ErrNoPaymentMethod возвращается, если у инвойса нет сохранённой карты
	ErrNoPaymentMethod = errors.New("payment: no saved payment method")

	// ErrChargeFailed возвращается, если процессинг отклонил списание
	ErrChargeFailed = errors.New("payment: charge failed")

	// ErrServiceUnavailable возвращается при ошибке обращения к процессингу
	ErrServiceUnavailable = errors.New("payment: service unavailable")
)
