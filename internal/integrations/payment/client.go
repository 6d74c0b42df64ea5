package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"

	"github.com/m04kA/SMC-TableService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// ChargeAPI операции процессинга, которые использует клиент
type ChargeAPI interface {
	CreateCharge(op *operations.CreateCharge) (*omise.Charge, error)
	ReverseCharge(op *operations.ReverseCharge) (*omise.Charge, error)
}

// Client клиент платёжного процессинга (Omise)
// Списывает штраф за неявку с сохранённой карты и снимает предавторизацию
type Client struct {
	api    ChargeAPI
	logger Logger
}

// NewClient создает клиент поверх готового API
func NewClient(api ChargeAPI, logger Logger) *Client {
	return &Client{api: api, logger: logger}
}

// NewOmiseClient создает клиент с ключами Omise
func NewOmiseClient(publicKey, secretKey string, logger Logger) (*Client, error) {
	c, err := omise.NewClient(publicKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("%w: NewOmiseClient - %v", ErrServiceUnavailable, err)
	}

	return NewClient(&omiseAPI{client: c}, logger), nil
}

// NewDisabledClient создает клиент для окружений без процессинга: любое обращение к API завершается ErrServiceUnavailable
func NewDisabledClient(logger Logger) *Client {
	return NewClient(disabledAPI{}, logger)
}

// CreatePaymentIntent списывает сумму штрафа за неявку с сохранённой карты инвойса
func (c *Client) CreatePaymentIntent(ctx context.Context, invoice *domain.Invoice) (*domain.PaymentResult, error) {
	if !invoice.HasSavedPaymentMethod() {
		return nil, fmt.Errorf("%w: CreatePaymentIntent - invoice=%d", ErrNoPaymentMethod, invoice.ID)
	}
	if invoice.NoShowChargeAmount <= 0 {
		return nil, fmt.Errorf("%w: CreatePaymentIntent - invoice=%d amount=%d", ErrInvalidAmount, invoice.ID, invoice.NoShowChargeAmount)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	currency := invoice.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	op := &operations.CreateCharge{
		Card:     *invoice.PaymentMethodID,
		Amount:   invoice.NoShowChargeAmount,
		Currency: currency,
		Metadata: map[string]interface{}{
			"invoice_id": invoice.ID,
			"reason":     "no_show",
		},
	}
	if invoice.PaymentCustomerID != nil {
		op.Customer = *invoice.PaymentCustomerID
	}

	c.logger.Info("CreatePaymentIntent: charging invoice=%d amount=%d %s", invoice.ID, op.Amount, currency)

	charge, err := c.api.CreateCharge(op)
	if err != nil {
		c.logger.Error("CreatePaymentIntent: charge request failed for invoice=%d: %v", invoice.ID, err)
		return nil, fmt.Errorf("%w: CreatePaymentIntent - invoice=%d: %v", ErrServiceUnavailable, invoice.ID, err)
	}

	if charge.Status == omise.ChargeFailed {
		reason := ""
		if charge.FailureMessage != nil {
			reason = *charge.FailureMessage
		}
		c.logger.Warn("CreatePaymentIntent: charge %s failed for invoice=%d: %s", charge.ID, invoice.ID, reason)
		return nil, fmt.Errorf("%w: CreatePaymentIntent - invoice=%d charge=%s: %s", ErrChargeFailed, invoice.ID, charge.ID, reason)
	}

	c.logger.Info("CreatePaymentIntent: charge %s status=%s for invoice=%d", charge.ID, charge.Status, invoice.ID)

	return &domain.PaymentResult{
		ChargeID: charge.ID,
		Amount:   charge.Amount,
		Currency: charge.Currency,
		Status:   string(charge.Status),
	}, nil
}

// CancelIntent снимает предавторизацию инвойса
// Если удерживаемого списания нет, вызов процессинга не выполняется
func (c *Client) CancelIntent(ctx context.Context, invoice *domain.Invoice) error {
	if invoice.SetupChargeID == nil || *invoice.SetupChargeID == "" {
		c.logger.Warn("CancelIntent: invoice=%d has no setup charge, nothing to reverse", invoice.ID)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	chargeID := *invoice.SetupChargeID
	if _, err := c.api.ReverseCharge(&operations.ReverseCharge{ChargeID: chargeID}); err != nil {
		c.logger.Error("CancelIntent: reverse of charge %s failed for invoice=%d: %v", chargeID, invoice.ID, err)
		return fmt.Errorf("%w: CancelIntent - invoice=%d charge=%s: %v", ErrServiceUnavailable, invoice.ID, chargeID, err)
	}

	c.logger.Info("CancelIntent: reversed charge %s for invoice=%d", chargeID, invoice.ID)
	return nil
}

var errDisabled = errors.New("payment processing is disabled in config")

type disabledAPI struct{}

func (disabledAPI) CreateCharge(*operations.CreateCharge) (*omise.Charge, error) {
	return nil, errDisabled
}

func (disabledAPI) ReverseCharge(*operations.ReverseCharge) (*omise.Charge, error) {
	return nil, errDisabled
}

type omiseAPI struct {
	client *omise.Client
}

func (a *omiseAPI) CreateCharge(op *operations.CreateCharge) (*omise.Charge, error) {
	charge := &omise.Charge{}
	if err := a.client.Do(charge, op); err != nil {
		return nil, err
	}
	return charge, nil
}

func (a *omiseAPI) ReverseCharge(op *operations.ReverseCharge) (*omise.Charge, error) {
	charge := &omise.Charge{}
	if err := a.client.Do(charge, op); err != nil {
		return nil, err
	}
	return charge, nil
}
