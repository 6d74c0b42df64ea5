package change_booking_status

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TableService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TableService/internal/infra/storage/booking"
	invoiceRepo "github.com/m04kA/SMC-TableService/internal/infra/storage/invoice"
	"github.com/m04kA/SMC-TableService/internal/integrations/notifier"
	"github.com/m04kA/SMC-TableService/internal/integrations/payment"
	"github.com/m04kA/SMC-TableService/pkg/ptr"
)

// UseCase use case жизненного цикла бронирования стола
type UseCase struct {
	bookingRepo  BookingRepository
	invoiceRepo  InvoiceRepository
	payment      PaymentService
	audit        AuditService
	cache        TableViewCache
	notifier     Notifier
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	invoiceRepo InvoiceRepository,
	payment PaymentService,
	audit AuditService,
	cache TableViewCache,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		invoiceRepo:  invoiceRepo,
		payment:      payment,
		audit:        audit,
		cache:        cache,
		notifier:     notifier,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// transition изменения, которые переход вносит в бронирования и инвойс
type transition struct {
	booking domain.StatusUpdate
	invoice domain.InvoiceUpdate
}

// settlement итог платёжной части перехода
type settlement struct {
	charge *domain.PaymentResult // nil, если списания не было
	before *domain.Invoice       // инвойс до процессинга; nil, если процессинг не вызывался
}

// Execute переводит все бронирования инвойса в новый статус
//
// Переходы:
//   - SEATED: seat_start_time = now, seat_end_time очищается
//   - LEFT: seat_end_time = now; действующая предавторизация снимается
//   - NOSHOW со списанием: нужна сохранённая карта и отсутствие прошлых списаний
//   - остальные переходы просто перезаписывают статус
//
// Платёжная часть фиксируется в инвойсе до смены статуса (см. settlePayment).
// Статус зеркалируется в инвойс, изменение пишется в журнал.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ChangeBookingStatus: booking=%d status=%s charge=%v", req.BookingID, req.Status, req.ChargeNoShow)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ChangeBookingStatus: validation failed: %v", err)
		return nil, err
	}

	// 2. Платёжный процессинг
	settled, err := uc.settlePayment(ctx, req)
	if err != nil {
		uc.logFailure("ChangeBookingStatus", err)
		return nil, err
	}

	var resp *Response
	var invoice *domain.Invoice

	// 3. Смена статуса в транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 3.1. Бронирование, его инвойс и все бронирования инвойса
		booking, inv, err := uc.load(txCtx, req.BookingID)
		if err != nil {
			return err
		}
		invoice = inv

		rows, err := uc.bookingRepo.GetByInvoiceID(txCtx, invoice.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to get invoice bookings: %v", ErrInternal, err)
		}

		tr := uc.plan(req)

		// 3.2. Обновляем все бронирования инвойса
		if _, err := uc.bookingRepo.UpdateStatusByInvoice(txCtx, invoice.ID, tr.booking); err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrTimeslotTaken):
				return fmt.Errorf("%w: ChangeBookingStatus - invoice=%d", domain.ErrBookingTimeslotFull, invoice.ID)
			case errors.Is(err, bookingRepo.ErrBookingNotFound):
				return fmt.Errorf("%w: ChangeBookingStatus - invoice=%d has no active bookings", domain.ErrBookingNotFound, invoice.ID)
			default:
				return fmt.Errorf("%w: failed to update bookings: %v", ErrInternal, err)
			}
		}

		// 3.3. Зеркалируем статус в инвойс
		if err := uc.invoiceRepo.Update(txCtx, invoice.ID, tr.invoice); err != nil {
			return fmt.Errorf("%w: failed to update invoice: %v", ErrInternal, err)
		}

		// 3.4. Журнал изменений (платёжные поля сравниваются с инвойсом до процессинга)
		beforeInvoice := invoice
		if settled.before != nil {
			beforeInvoice = settled.before
		}
		before := snapshotOf(booking, beforeInvoice)
		afterBooking := *booking
		tr.booking.Apply(&afterBooking)
		afterInvoice := *invoice
		tr.invoice.Apply(&afterInvoice)

		if err := uc.writeAudit(txCtx, req.UserID, booking.ID, before, snapshotOf(&afterBooking, &afterInvoice)); err != nil {
			return err
		}

		for _, row := range rows {
			tr.booking.Apply(row)
		}
		resp = &Response{
			InvoiceID: invoice.ID,
			OldStatus: booking.Status,
			Status:    req.Status,
			Bookings:  rows,
			Charge:    settled.charge,
		}
		return nil
	})
	if err != nil {
		uc.logFailure("ChangeBookingStatus", err)
		return nil, err
	}

	// 4. Кеш и уведомление после коммита
	uc.afterCommit(ctx, invoice, resp)

	uc.logger.Info("ChangeBookingStatus: invoice=%d %s -> %s, %d bookings", resp.InvoiceID, resp.OldStatus, resp.Status, len(resp.Bookings))
	return resp, nil
}

// plan вычисляет изменения статуса и времени посадки
func (uc *UseCase) plan(req *Request) *transition {
	now := uc.timeProvider.Now()
	tr := &transition{
		booking: domain.StatusUpdate{Status: req.Status},
		invoice: domain.InvoiceUpdate{Status: ptr.Ptr(req.Status)},
	}

	switch req.Status {
	case domain.StatusSeated:
		tr.booking.SetSeatStart = true
		tr.booking.SeatStartTime = &now
		tr.booking.SetSeatEnd = true
		tr.booking.SeatEndTime = nil

	case domain.StatusLeft:
		tr.booking.SetSeatEnd = true
		tr.booking.SeatEndTime = &now
	}

	return tr
}

// settlePayment выполняет платёжную часть перехода: снятие предавторизации для LEFT
// и штраф за неявку для NOSHOW со списанием.
//
// Предавторизация помечается использованной отдельной транзакцией до обращения к процессингу,
// сумма списания фиксируется сразу после него. Сбой последующей смены статуса не откатывает
// эти записи, поэтому повтор запроса не списывает деньги и не снимает предавторизацию второй раз.
// При ошибке процессинга пометка снимается.
func (uc *UseCase) settlePayment(ctx context.Context, req *Request) (*settlement, error) {
	charge := req.Status == domain.StatusNoShow && req.ChargeNoShow
	if req.Status != domain.StatusLeft && !charge {
		return &settlement{}, nil
	}

	var invoice *domain.Invoice
	claimed := false

	// 1. Проверяем предусловия и занимаем предавторизацию
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		_, inv, err := uc.load(txCtx, req.BookingID)
		if err != nil {
			return err
		}
		invoice = inv

		if charge {
			if !invoice.HasSavedPaymentMethod() {
				return fmt.Errorf("%w: ChangeBookingStatus - invoice=%d", domain.ErrCardNotSaved, invoice.ID)
			}
			if invoice.IsCharged() {
				return fmt.Errorf("%w: ChangeBookingStatus - invoice=%d paid=%d validSetupIntent=%v",
					domain.ErrAlreadyCharged, invoice.ID, invoice.TotalPaidAmount, invoice.IsValidSetupIntent)
			}
		} else if !invoice.IsValidSetupIntent {
			return nil
		}

		if err := uc.invoiceRepo.Update(txCtx, invoice.ID, domain.InvoiceUpdate{IsValidSetupIntent: ptr.Ptr(false)}); err != nil {
			return fmt.Errorf("%w: failed to claim setup intent: %v", ErrInternal, err)
		}
		claimed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !claimed {
		return &settlement{}, nil
	}

	// 2. Процессинг
	settled := &settlement{before: invoice}
	step := "cancel intent"
	if charge {
		step = "charge no-show"
		settled.charge, err = uc.payment.CreatePaymentIntent(ctx, invoice)
	} else {
		err = uc.payment.CancelIntent(ctx, invoice)
	}
	if err != nil {
		uc.releaseClaim(ctx, invoice.ID)
		return nil, uc.mapPaymentError(step, err)
	}

	// 3. Фиксируем сумму списания
	if settled.charge != nil {
		err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
			return uc.invoiceRepo.Update(txCtx, invoice.ID, domain.InvoiceUpdate{TotalPaidAmount: ptr.Ptr(settled.charge.Amount)})
		})
		if err != nil {
			uc.logger.Error("ChangeBookingStatus: charge %s for invoice=%d is taken but not recorded: %v",
				settled.charge.ChargeID, invoice.ID, err)
			return nil, fmt.Errorf("%w: record charge %s: %v", ErrInternal, settled.charge.ChargeID, err)
		}
	}

	return settled, nil
}

// releaseClaim возвращает предавторизацию после отказа процессинга
func (uc *UseCase) releaseClaim(ctx context.Context, invoiceID int64) {
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		return uc.invoiceRepo.Update(txCtx, invoiceID, domain.InvoiceUpdate{IsValidSetupIntent: ptr.Ptr(true)})
	})
	if err != nil {
		uc.logger.Error("ChangeBookingStatus: failed to release setup intent for invoice=%d: %v", invoiceID, err)
	}
}

// load читает бронирование и его инвойс
func (uc *UseCase) load(ctx context.Context, bookingID int64) (*domain.TableBooking, *domain.Invoice, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, nil, fmt.Errorf("%w: ChangeBookingStatus - booking=%d", domain.ErrBookingNotFound, bookingID)
		}
		return nil, nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	invoice, err := uc.invoiceRepo.GetByID(ctx, booking.InvoiceID)
	if err != nil {
		if errors.Is(err, invoiceRepo.ErrInvoiceNotFound) {
			return nil, nil, fmt.Errorf("%w: ChangeBookingStatus - invoice=%d", domain.ErrInvoiceNotFound, booking.InvoiceID)
		}
		return nil, nil, fmt.Errorf("%w: failed to get invoice: %v", ErrInternal, err)
	}

	return booking, invoice, nil
}

func (uc *UseCase) logFailure(op string, err error) {
	if _, ok := domain.AsError(err); ok {
		uc.logger.Warn("%s: %v", op, err)
	} else {
		uc.logger.Error("%s: %v", op, err)
	}
}

// ConfirmFromLink подтверждает бронь по внешней ссылке
// Если все бронирования инвойса в BOOKED, инвойсу ставится confirmed_at и возвращается BOOKED.
// Иначе возвращается ERROR. ERROR здесь только исход ответа: в бронирования и инвойс он не записывается,
// ничего не меняется.
func (uc *UseCase) ConfirmFromLink(ctx context.Context, invoiceID int64) (*ConfirmResponse, error) {
	uc.logger.Info("ConfirmFromLink: invoice=%d", invoiceID)

	if invoiceID <= 0 {
		return nil, fmt.Errorf("%w: invoice id is required", domain.ErrInvalidInput)
	}

	resp := &ConfirmResponse{InvoiceID: invoiceID}

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		invoice, err := uc.invoiceRepo.GetByID(txCtx, invoiceID)
		if err != nil {
			if errors.Is(err, invoiceRepo.ErrInvoiceNotFound) {
				return fmt.Errorf("%w: ConfirmFromLink - invoice=%d", domain.ErrInvoiceNotFound, invoiceID)
			}
			return fmt.Errorf("%w: failed to get invoice: %v", ErrInternal, err)
		}

		rows, err := uc.bookingRepo.GetByInvoiceID(txCtx, invoice.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to get invoice bookings: %v", ErrInternal, err)
		}
		if len(rows) == 0 {
			return fmt.Errorf("%w: ConfirmFromLink - invoice=%d has no active bookings", domain.ErrBookingNotFound, invoice.ID)
		}

		for _, row := range rows {
			if row.Status != domain.StatusBooked {
				uc.logger.Warn("ConfirmFromLink: booking=%d is %s, link is no longer valid", row.ID, row.Status)
				resp.Status = domain.StatusError
				return nil
			}
		}

		now := uc.timeProvider.Now()
		if err := uc.invoiceRepo.Update(txCtx, invoice.ID, domain.InvoiceUpdate{ConfirmedAt: &now}); err != nil {
			return fmt.Errorf("%w: failed to confirm invoice: %v", ErrInternal, err)
		}

		resp.Status = domain.StatusBooked
		return nil
	})
	if err != nil {
		uc.logFailure("ConfirmFromLink", err)
		return nil, err
	}

	uc.logger.Info("ConfirmFromLink: invoice=%d outcome=%s", invoiceID, resp.Status)
	return resp, nil
}

func (uc *UseCase) afterCommit(ctx context.Context, invoice *domain.Invoice, resp *Response) {
	tableIDs := make([]int64, 0, len(resp.Bookings))
	bookingIDs := make([]int64, 0, len(resp.Bookings))
	for _, b := range resp.Bookings {
		tableIDs = append(tableIDs, b.TableID)
		bookingIDs = append(bookingIDs, b.ID)
	}

	if err := uc.cache.Invalidate(ctx, tableIDs...); err != nil {
		uc.logger.Warn("ChangeBookingStatus: failed to invalidate cache for tables=%v: %v", tableIDs, err)
	}

	err := uc.notifier.PublishStatusChanged(ctx, notifier.StatusChangedEvent{
		InvoiceID:  invoice.ID,
		OutletID:   invoice.OutletID,
		BookingIDs: bookingIDs,
		OldStatus:  string(resp.OldStatus),
		NewStatus:  string(resp.Status),
	})
	if err != nil {
		uc.logger.Warn("ChangeBookingStatus: failed to publish event for invoice=%d: %v", invoice.ID, err)
	}
}

func (uc *UseCase) writeAudit(ctx context.Context, userID, bookingID int64, before, after statusSnapshot) error {
	change, err := uc.audit.Diff(before, after)
	if err != nil {
		return fmt.Errorf("%w: audit diff: %v", ErrInternal, err)
	}

	err = uc.audit.Write(ctx, &domain.AuditRecord{
		Entity:   domain.AuditEntityTableBooking,
		EntityID: bookingID,
		Action:   domain.AuditActionStatusChange,
		UserID:   userID,
		Change:   change,
	})
	if err != nil {
		return fmt.Errorf("%w: audit write: %v", ErrInternal, err)
	}

	return nil
}

// mapPaymentError переводит ошибки процессинга в доменные
func (uc *UseCase) mapPaymentError(step string, err error) error {
	switch {
	case errors.Is(err, payment.ErrNoPaymentMethod):
		return fmt.Errorf("%w: ChangeBookingStatus - %s: %v", domain.ErrCardNotSaved, step, err)
	case errors.Is(err, payment.ErrInvalidAmount):
		return fmt.Errorf("%w: ChangeBookingStatus - %s: %v", domain.ErrInvalidInput, step, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrInternal, step, err)
	}
}
