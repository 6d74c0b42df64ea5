package move_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TableService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TableService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-TableService/internal/integrations/notifier"
	"github.com/m04kA/SMC-TableService/pkg/txmanager"
)

// UseCase use case переноса бронирования на другой стол
type UseCase struct {
	bookingRepo BookingRepository
	tableRepo   TableRepository
	checker     AvailabilityChecker
	views       ViewBuilder
	audit       AuditService
	cache       TableViewCache
	notifier    Notifier
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	tableRepo TableRepository,
	checker AvailabilityChecker,
	views ViewBuilder,
	audit AuditService,
	cache TableViewCache,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		tableRepo:   tableRepo,
		checker:     checker,
		views:       views,
		audit:       audit,
		cache:       cache,
		notifier:    notifier,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute переносит бронирование на стол назначения того же заведения
// Окно бронирования не меняется. Возвращает схемы обоих столов в диапазоне отображения.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("MoveBooking: booking=%d -> table=%d", req.BookingID, req.DestinationTableID)

	// 1. Валидация входных данных
	displayRange, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("MoveBooking: validation failed: %v", err)
		return nil, err
	}

	var (
		before *domain.TableBooking
		moved  *domain.TableBooking
		resp   *Response
	)

	// 2. Проверка и перенос в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Загружаем бронирование
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return fmt.Errorf("%w: MoveBooking - booking=%d", domain.ErrBookingNotFound, req.BookingID)
			}
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}
		if booking.TableID == req.DestinationTableID {
			return fmt.Errorf("%w: booking %d is already on table %d", domain.ErrInvalidMove, booking.ID, booking.TableID)
		}

		// 2.2. Стол назначения должен быть в заведении бронирования
		tables, err := uc.tableRepo.FindByIDsAndOutlet(txCtx, []int64{req.DestinationTableID}, booking.OutletID)
		if err != nil {
			return fmt.Errorf("%w: failed to get destination table: %w", ErrInternal, err)
		}
		if len(tables) == 0 {
			return fmt.Errorf("%w: MoveBooking - table %d is not in outlet %d",
				domain.ErrInvalidTable, req.DestinationTableID, booking.OutletID)
		}

		// 2.3. Стол назначения свободен в окне бронирования
		conflict, err := uc.checker.HasConflict(txCtx, []int64{req.DestinationTableID}, booking.Window(), booking.OutletID)
		if err != nil {
			if errors.Is(err, domain.ErrBookingTimeslotFull) {
				return fmt.Errorf("%w: MoveBooking - %v", domain.ErrInvalidMove, err)
			}
			return fmt.Errorf("%w: availability check failed: %w", ErrInternal, err)
		}
		if conflict {
			return fmt.Errorf("%w: MoveBooking - table %d is busy at %s", domain.ErrInvalidMove, req.DestinationTableID, booking.Window())
		}

		// 2.4. Переносим
		if err := uc.bookingRepo.UpdateTable(txCtx, booking.ID, req.DestinationTableID); err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrTimeslotTaken):
				return fmt.Errorf("%w: MoveBooking - table %d taken concurrently", domain.ErrInvalidMove, req.DestinationTableID)
			case errors.Is(err, bookingRepo.ErrBookingNotFound):
				return fmt.Errorf("%w: MoveBooking - booking=%d", domain.ErrBookingNotFound, booking.ID)
			default:
				return fmt.Errorf("%w: failed to update table: %w", ErrInternal, err)
			}
		}

		before = booking
		after := *booking
		after.TableID = req.DestinationTableID
		moved = &after

		// 2.5. Журнал изменений
		if err := uc.writeAudit(txCtx, req.UserID, before, moved); err != nil {
			return err
		}

		// 2.6. Схемы обоих столов внутри транзакции
		source, err := uc.views.BuildView(txCtx, before.TableID, displayRange)
		if err != nil {
			return uc.mapViewError(err)
		}
		destination, err := uc.views.BuildView(txCtx, req.DestinationTableID, displayRange)
		if err != nil {
			return uc.mapViewError(err)
		}

		resp = &Response{Booking: moved, Source: source, Destination: destination}
		return nil
	})
	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) {
			err = fmt.Errorf("%w: MoveBooking - %v", domain.ErrInvalidMove, err)
		}
		if _, ok := domain.AsError(err); ok {
			uc.logger.Warn("MoveBooking: %v", err)
		} else {
			uc.logger.Error("MoveBooking: %v", err)
		}
		return nil, err
	}

	// 3. Сбрасываем кеш обоих столов
	if err := uc.cache.Invalidate(ctx, before.TableID, moved.TableID); err != nil {
		uc.logger.Warn("MoveBooking: failed to invalidate cache for tables=%d,%d: %v", before.TableID, moved.TableID, err)
	}

	// 4. Уведомление
	err = uc.notifier.PublishMoved(ctx, notifier.MovedEvent{
		BookingID:   moved.ID,
		InvoiceID:   moved.InvoiceID,
		FromTableID: before.TableID,
		ToTableID:   moved.TableID,
	})
	if err != nil {
		uc.logger.Warn("MoveBooking: failed to publish event for booking=%d: %v", moved.ID, err)
	}

	uc.logger.Info("MoveBooking: booking=%d moved from table=%d to table=%d", moved.ID, before.TableID, moved.TableID)
	return resp, nil
}

func (uc *UseCase) writeAudit(ctx context.Context, userID int64, before, after *domain.TableBooking) error {
	change, err := uc.audit.Diff(before, after)
	if err != nil {
		return fmt.Errorf("%w: audit diff: %v", ErrInternal, err)
	}

	err = uc.audit.Write(ctx, &domain.AuditRecord{
		Entity:   domain.AuditEntityTableBooking,
		EntityID: after.ID,
		Action:   domain.AuditActionMove,
		UserID:   userID,
		Change:   change,
	})
	if err != nil {
		return fmt.Errorf("%w: audit write: %v", ErrInternal, err)
	}

	return nil
}

func (uc *UseCase) mapViewError(err error) error {
	if _, ok := domain.AsError(err); ok {
		return err
	}
	return fmt.Errorf("%w: build view: %v", ErrInternal, err)
}
