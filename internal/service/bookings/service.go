package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TableService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TableService/internal/infra/storage/booking"
	tableRepo "github.com/m04kA/SMC-TableService/internal/infra/storage/table"
	"github.com/m04kA/SMC-TableService/internal/service/bookings/models"
)

// Service сервис чтения бронирований столов
type Service struct {
	bookingRepo BookingRepository
	tableRepo   TableRepository
	cache       TableViewCache
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	tableRepo TableRepository,
	cache TableViewCache,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		tableRepo:   tableRepo,
		cache:       cache,
		logger:      logger,
	}
}

// GetByID получает бронирование стола по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching table booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: table booking id=%d not found", id)
			return nil, fmt.Errorf("%w: GetByID - id=%d", domain.ErrBookingNotFound, id)
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// GetTableView получает стол и его бронирования, пересекающиеся с диапазоном отображения
// Сначала читается кеш; ошибки кеша только логируются.
// Схема, построенная до инвалидации стола, в кеш не записывается.
func (s *Service) GetTableView(ctx context.Context, tableID int64, displayRange domain.TimeWindow) (*models.TableViewResponse, error) {
	s.logger.Info("GetTableView: table=%d range=%s", tableID, displayRange)

	cached, version, hit, err := s.cache.Get(ctx, tableID, displayRange)
	if err != nil {
		s.logger.Warn("GetTableView: cache read failed for table=%d: %v", tableID, err)
	}
	if hit {
		s.logger.Info("GetTableView: cache hit for table=%d", tableID)
		return models.FromDomainTableView(cached), nil
	}

	view, err := s.BuildView(ctx, tableID, displayRange)
	if err != nil {
		return nil, err
	}

	stored, err := s.cache.Set(ctx, view, displayRange, version)
	switch {
	case err != nil:
		s.logger.Warn("GetTableView: cache write failed for table=%d: %v", tableID, err)
	case !stored:
		s.logger.Info("GetTableView: table=%d changed while building view, cache write skipped", tableID)
	}

	s.logger.Info("GetTableView: table=%d has %d bookings in range", tableID, len(view.Bookings))
	return models.FromDomainTableView(view), nil
}

// BuildView читает схему стола из хранилища, минуя кеш
// Внутри транзакции видит её незакоммиченные изменения
func (s *Service) BuildView(ctx context.Context, tableID int64, displayRange domain.TimeWindow) (*domain.TableView, error) {
	table, err := s.tableRepo.FindByID(ctx, tableID)
	if err != nil {
		if errors.Is(err, tableRepo.ErrTableNotFound) {
			s.logger.Warn("BuildView: table id=%d not found", tableID)
			return nil, fmt.Errorf("%w: BuildView - id=%d", domain.ErrTableNotFound, tableID)
		}
		s.logger.Error("BuildView: table repository error for id=%d: %v", tableID, err)
		return nil, fmt.Errorf("%w: BuildView - table repository error: %v", ErrInternal, err)
	}

	bookings, err := s.bookingRepo.ListByTableInRange(ctx, tableID, displayRange)
	if err != nil {
		s.logger.Error("BuildView: booking repository error for table=%d: %v", tableID, err)
		return nil, fmt.Errorf("%w: BuildView - booking repository error: %v", ErrInternal, err)
	}

	return &domain.TableView{Table: *table, Bookings: bookings}, nil
}
