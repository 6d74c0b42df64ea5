package create_table_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TableService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TableService/internal/infra/storage/booking"
	groupRepo "github.com/m04kA/SMC-TableService/internal/infra/storage/group"
	invoiceRepo "github.com/m04kA/SMC-TableService/internal/infra/storage/invoice"
	"github.com/m04kA/SMC-TableService/pkg/txmanager"
)

// UseCase use case бронирования столов под инвойс
type UseCase struct {
	bookingRepo BookingRepository
	tableRepo   TableRepository
	groupRepo   GroupRepository
	invoiceRepo InvoiceRepository
	checker     AvailabilityChecker
	cache       TableViewCache
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	tableRepo TableRepository,
	groupRepo GroupRepository,
	invoiceRepo InvoiceRepository,
	checker AvailabilityChecker,
	cache TableViewCache,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		tableRepo:   tableRepo,
		groupRepo:   groupRepo,
		invoiceRepo: invoiceRepo,
		checker:     checker,
		cache:       cache,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute проверяет доступность и создаёт по одному бронированию на каждый стол
//
// Проверка и вставка выполняются в одной SERIALIZABLE транзакции. Если конкурирующая транзакция
// заняла стол раньше, БД отклоняет вставку (EXCLUDE ограничение или ошибка сериализации),
// и клиент получает ErrBookingTimeslotFull.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateTableBooking: invoice=%d, outlet=%d, tables=%v, group=%v, possibility=%v",
		req.InvoiceID, req.OutletID, req.TableIDs, derefOrNil(req.GroupID), derefOrNil(req.PossibilityID))

	// 1. Валидация входных данных
	window, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateTableBooking: validation failed: %v", err)
		return nil, err
	}

	var (
		tableIDs []int64
		created  []*domain.TableBooking
	)

	// 2. Проверка и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Инвойс должен существовать и принадлежать заведению
		invoice, err := uc.invoiceRepo.GetByID(txCtx, req.InvoiceID)
		if err != nil {
			if errors.Is(err, invoiceRepo.ErrInvoiceNotFound) {
				return fmt.Errorf("%w: CreateTableBooking - invoice=%d", domain.ErrInvoiceNotFound, req.InvoiceID)
			}
			return fmt.Errorf("%w: failed to get invoice: %w", ErrInternal, err)
		}
		if invoice.OutletID != req.OutletID {
			return fmt.Errorf("%w: invoice %d belongs to outlet %d", domain.ErrInvalidInput, invoice.ID, invoice.OutletID)
		}

		// 2.2. Определяем столы
		tableIDs, err = uc.resolveTables(txCtx, req)
		if err != nil {
			return err
		}

		// 2.3. Все столы должны быть в заведении
		tables, err := uc.tableRepo.FindByIDsAndOutlet(txCtx, tableIDs, req.OutletID)
		if err != nil {
			return fmt.Errorf("%w: failed to get tables: %w", ErrInternal, err)
		}
		if len(tables) != len(tableIDs) {
			return fmt.Errorf("%w: CreateTableBooking - %d of %d tables are not in outlet %d",
				domain.ErrInvalidTable, len(tableIDs)-len(tables), len(tableIDs), req.OutletID)
		}

		// 2.4. Проверка доступности
		conflict, err := uc.checker.HasConflict(txCtx, tableIDs, window, req.OutletID)
		if err != nil {
			if _, ok := domain.AsError(err); ok {
				return err
			}
			return fmt.Errorf("%w: availability check failed: %w", ErrInternal, err)
		}
		if conflict {
			return fmt.Errorf("%w: CreateTableBooking - tables=%v window=%s", domain.ErrBookingTimeslotFull, tableIDs, window)
		}

		// 2.5. Создаём бронирования
		created = make([]*domain.TableBooking, 0, len(tableIDs))
		for _, tableID := range tableIDs {
			booking, err := uc.bookingRepo.Create(txCtx, &domain.TableBooking{
				InvoiceID:        req.InvoiceID,
				TableID:          tableID,
				OutletID:         req.OutletID,
				BookingStartTime: window.Start(),
				BookingEndTime:   window.End(),
				Status:           domain.StatusBooked,
			})
			if err != nil {
				if errors.Is(err, bookingRepo.ErrTimeslotTaken) {
					return fmt.Errorf("%w: CreateTableBooking - table=%d taken concurrently", domain.ErrBookingTimeslotFull, tableID)
				}
				return fmt.Errorf("%w: failed to create booking for table=%d: %w", ErrInternal, tableID, err)
			}
			created = append(created, booking)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) {
			err = fmt.Errorf("%w: CreateTableBooking - %v", domain.ErrBookingTimeslotFull, err)
		}
		if _, ok := domain.AsError(err); ok {
			uc.logger.Warn("CreateTableBooking: %v", err)
		} else {
			uc.logger.Error("CreateTableBooking: %v", err)
		}
		return nil, err
	}

	// 3. Сбрасываем кеш схем столов
	if err := uc.cache.Invalidate(ctx, tableIDs...); err != nil {
		uc.logger.Warn("CreateTableBooking: failed to invalidate cache for tables=%v: %v", tableIDs, err)
	}

	uc.logger.Info("CreateTableBooking: created %d bookings for invoice=%d", len(created), req.InvoiceID)
	return toResponse(req.InvoiceID, tableIDs, created), nil
}

// resolveTables возвращает столы запроса или выбранной комбинации группы
func (uc *UseCase) resolveTables(ctx context.Context, req *Request) ([]int64, error) {
	if req.GroupID == nil {
		return req.TableIDs, nil
	}

	group, err := uc.groupRepo.GetByID(ctx, *req.GroupID)
	if err != nil {
		if errors.Is(err, groupRepo.ErrGroupNotFound) {
			return nil, fmt.Errorf("%w: CreateTableBooking - group=%d", domain.ErrGroupNotFound, *req.GroupID)
		}
		return nil, fmt.Errorf("%w: failed to get group: %w", ErrInternal, err)
	}
	if !group.IsActive {
		return nil, fmt.Errorf("%w: group %d is not active", domain.ErrInvalidInput, group.ID)
	}

	possibility := group.FindPossibility(*req.PossibilityID)
	if possibility == nil {
		return nil, fmt.Errorf("%w: CreateTableBooking - possibility=%d group=%d",
			domain.ErrPossibilityNotFound, *req.PossibilityID, group.ID)
	}

	return possibility.TableIDs, nil
}

func toResponse(invoiceID int64, tableIDs []int64, bookings []*domain.TableBooking) *Response {
	resp := &Response{
		InvoiceID: invoiceID,
		TableIDs:  tableIDs,
		Bookings:  make([]Booking, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, Booking{
			ID:        b.ID,
			TableID:   b.TableID,
			StartTime: b.BookingStartTime,
			EndTime:   b.BookingEndTime,
			Status:    string(b.Status),
			CreatedAt: b.CreatedAt,
		})
	}
	return resp
}

func derefOrNil(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
