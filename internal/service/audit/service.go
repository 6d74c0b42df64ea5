package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableService/internal/domain"
)

// Service формирует и записывает журнал изменений сущностей
type Service struct {
	repo   Repository
	logger Logger
}

// NewService создает новый экземпляр сервиса аудита
func NewService(repo Repository, logger Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Diff возвращает поля, значения которых различаются в двух снимках
// Снимки сравниваются в JSON-представлении; nil означает отсутствие сущности (создание/удаление)
func (s *Service) Diff(before, after interface{}) (domain.ContentChange, error) {
	return Diff(before, after)
}

// Write сохраняет запись аудита; пустой CorrelationID заполняется новым UUID
func (s *Service) Write(ctx context.Context, record *domain.AuditRecord) error {
	if record.CorrelationID == "" {
		record.CorrelationID = uuid.NewString()
	}

	if err := s.repo.Write(ctx, record); err != nil {
		s.logger.Error("Write: failed to write audit %s %s id=%d: %v", record.Entity, record.Action, record.EntityID, err)
		return fmt.Errorf("%w: Write - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Write: audit %s %s id=%d fields=%d", record.Entity, record.Action, record.EntityID, len(record.Change))
	return nil
}

// Diff сравнивает два снимка поле за полем
func Diff(before, after interface{}) (domain.ContentChange, error) {
	b, err := toFields(before)
	if err != nil {
		return nil, err
	}
	a, err := toFields(after)
	if err != nil {
		return nil, err
	}

	change := domain.ContentChange{}
	for key, oldValue := range b {
		newValue, ok := a[key]
		if !ok || !reflect.DeepEqual(oldValue, newValue) {
			change[key] = domain.FieldChange{Old: oldValue, New: newValue}
		}
	}
	for key, newValue := range a {
		if _, ok := b[key]; !ok {
			change[key] = domain.FieldChange{Old: nil, New: newValue}
		}
	}

	return change, nil
}

func toFields(v interface{}) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if v == nil {
		return fields, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal: %v", ErrSnapshot, err)
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: not an object: %v", ErrSnapshot, err)
	}
	if fields == nil {
		fields = map[string]interface{}{}
	}

	return fields, nil
}
