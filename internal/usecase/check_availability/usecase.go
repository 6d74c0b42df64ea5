package check_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TableService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TableService/internal/infra/storage/booking"
)

// UseCase use case проверки доступности столов
type UseCase struct {
	bookingRepo  BookingRepository
	tableRepo    TableRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	tableRepo TableRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		tableRepo:    tableRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute проверяет, свободны ли все столы запроса в окне
// Столы должны принадлежать заведению
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: outlet=%d, tables=%v, window=%s..%s",
		req.OutletID, req.TableIDs, req.StartTime.Format("2006-01-02T15:04"), req.EndTime.Format("2006-01-02T15:04"))

	// 1. Валидация входных данных
	window, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Столы должны существовать в заведении
	tables, err := uc.tableRepo.FindByIDsAndOutlet(ctx, req.TableIDs, req.OutletID)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to get tables: %v", err)
		return nil, fmt.Errorf("%w: failed to get tables: %v", ErrInternal, err)
	}
	if len(tables) != len(req.TableIDs) {
		uc.logger.Warn("CheckAvailability: %d of %d tables not found in outlet=%d",
			len(req.TableIDs)-len(tables), len(req.TableIDs), req.OutletID)
		return nil, fmt.Errorf("%w: CheckAvailability - outlet=%d", domain.ErrInvalidTable, req.OutletID)
	}

	// 3. Ищем мешающие бронирования
	conflicts, err := uc.Conflicts(ctx, req.TableIDs, window, req.OutletID)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		Available: len(conflicts) == 0,
		Conflicts: make([]Conflict, 0, len(conflicts)),
	}
	for _, b := range conflicts {
		resp.Conflicts = append(resp.Conflicts, Conflict{
			BookingID: b.ID,
			TableID:   b.TableID,
			StartTime: b.BookingStartTime,
			EndTime:   b.BookingEndTime,
			Status:    string(b.Status),
		})
	}

	uc.logger.Info("CheckAvailability: available=%t, conflicts=%d", resp.Available, len(conflicts))
	return resp, nil
}

// HasConflict сообщает, занят ли хотя бы один из столов в окне
// Отсутствие конфликта - это false, а не ошибка; ошибка возвращается только при сбое хранилища
func (uc *UseCase) HasConflict(ctx context.Context, tableIDs []int64, window domain.TimeWindow, outletID int64) (bool, error) {
	conflicts, err := uc.Conflicts(ctx, tableIDs, window, outletID)
	if err != nil {
		return false, err
	}
	return len(conflicts) > 0, nil
}

// Conflicts возвращает бронирования, которые блокируют окно на любом из столов
//
// Учитываются только активные бронирования того же заведения, которые ещё не закончились
// (booking_end_time >= now) и находятся в блокирующем статусе. Касание границ конфликтом не является.
func (uc *UseCase) Conflicts(ctx context.Context, tableIDs []int64, window domain.TimeWindow, outletID int64) ([]*domain.TableBooking, error) {
	if len(tableIDs) == 0 {
		return []*domain.TableBooking{}, nil
	}

	now := uc.timeProvider.Now()

	bookings, err := uc.bookingRepo.ListMatching(ctx, domain.BookingsFilter{
		OutletID:      outletID,
		TableIDs:      tableIDs,
		Window:        window,
		EndsNotBefore: now,
		ExcludeStatus: domain.NonBlockingStatuses,
	})
	if err != nil {
		// Конкурирующая SERIALIZABLE транзакция уже держит эти строки
		if errors.Is(err, bookingRepo.ErrTimeslotTaken) {
			uc.logger.Warn("HasConflict: rows locked by a concurrent booking for tables=%v", tableIDs)
			return nil, fmt.Errorf("%w: HasConflict - %v", domain.ErrBookingTimeslotFull, err)
		}
		uc.logger.Error("HasConflict: failed to list bookings for tables=%v: %v", tableIDs, err)
		return nil, fmt.Errorf("%w: HasConflict - list bookings: %w", ErrInternal, err)
	}

	return filterBlocking(bookings, tableIDs, window, outletID, now), nil
}

// filterBlocking повторно применяет правило пересечения к строкам из хранилища
func filterBlocking(bookings []*domain.TableBooking, tableIDs []int64, window domain.TimeWindow, outletID int64, now time.Time) []*domain.TableBooking {
	wanted := make(map[int64]struct{}, len(tableIDs))
	for _, id := range tableIDs {
		wanted[id] = struct{}{}
	}

	blocking := make([]*domain.TableBooking, 0)
	for _, b := range bookings {
		if _, ok := wanted[b.TableID]; !ok {
			continue
		}
		if b.OutletID != outletID || b.BookingEndTime.Before(now) {
			continue
		}
		if b.Blocks(window) {
			blocking = append(blocking, b)
		}
	}

	return blocking
}
