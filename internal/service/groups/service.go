package groups

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-TableService/internal/domain"
	groupRepo "github.com/m04kA/SMC-TableService/internal/infra/storage/group"
	"github.com/m04kA/SMC-TableService/internal/service/groups/models"
)

// Service сервис групп столов и их комбинаций
type Service struct {
	groupRepo GroupRepository
	tableRepo TableRepository
	audit     AuditService
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса групп столов
func NewService(
	groupRepo GroupRepository,
	tableRepo TableRepository,
	audit AuditService,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		groupRepo: groupRepo,
		tableRepo: tableRepo,
		audit:     audit,
		txManager: txManager,
		logger:    logger,
	}
}

// CreateGroup создает группу, её последовательность и все непрерывные комбинации
// Каждый стол должен принадлежать типу рассадки группы. Индекс комбинации = позиция + 1.
func (s *Service) CreateGroup(ctx context.Context, req *models.CreateGroupRequest) (*models.GroupResponse, error) {
	s.logger.Info("CreateGroup: seatingType=%d tables=%v name=%q", req.SeatingTypeID, req.TableIDs, req.Name)

	if err := validateScalars(req.Name, req.MinPax, req.MaxPax); err != nil {
		s.logger.Warn("CreateGroup: validation failed: %v", err)
		return nil, err
	}
	if err := validateTableIDs(req.TableIDs, domain.MinGroupTables); err != nil {
		s.logger.Warn("CreateGroup: validation failed: %v", err)
		return nil, err
	}

	var group *domain.GroupTable
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Проверяем, что все столы принадлежат типу рассадки
		tables, err := s.tableRepo.FindByIDsAndSeatingType(txCtx, req.TableIDs, req.SeatingTypeID)
		if err != nil {
			return fmt.Errorf("%w: CreateGroup - find tables: %v", ErrInternal, err)
		}
		if missing, ok := firstMissing(req.TableIDs, tables); ok {
			return fmt.Errorf("%w: CreateGroup - table %d is not in seating type %d", domain.ErrInvalidTable, missing, req.SeatingTypeID)
		}

		// 2. Создаём группу
		group, err = s.groupRepo.CreateGroup(txCtx, &domain.GroupTable{
			OutletSeatingTypeID: req.SeatingTypeID,
			Name:                strings.TrimSpace(req.Name),
			MinPax:              req.MinPax,
			MaxPax:              req.MaxPax,
			IsActive:            true,
		})
		if err != nil {
			return fmt.Errorf("%w: CreateGroup - create group: %v", ErrInternal, err)
		}

		// 3. Сохраняем последовательность в порядке запроса
		if err := s.groupRepo.CreateSequence(txCtx, group.ID, req.TableIDs); err != nil {
			return fmt.Errorf("%w: CreateGroup - create sequence: %v", ErrInternal, err)
		}
		group.Sequence = append([]int64{}, req.TableIDs...)

		// 4. Генерируем и сохраняем комбинации
		combinations := GenerateCombinations(req.TableIDs)
		group.Possibilities = make([]*domain.GroupPossibility, 0, len(combinations))
		for i, combination := range combinations {
			possibility, err := s.groupRepo.CreatePossibility(txCtx, group.ID, i+1, combination)
			if err != nil {
				return fmt.Errorf("%w: CreateGroup - create possibility %d: %v", ErrInternal, i+1, err)
			}
			group.Possibilities = append(group.Possibilities, possibility)
		}

		// 5. Аудит
		return s.writeAudit(txCtx, req.UserID, group.ID, domain.AuditActionCreate, nil, group)
	})
	if err != nil {
		s.logError("CreateGroup", err)
		return nil, err
	}

	s.logger.Info("CreateGroup: created group id=%d with %d possibilities", group.ID, len(group.Possibilities))
	return models.FromDomainGroup(group), nil
}

// GetGroup получает группу с последовательностью и комбинациями
func (s *Service) GetGroup(ctx context.Context, groupID int64) (*models.GroupResponse, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		err = s.mapRepoError("GetGroup", err)
		s.logError("GetGroup", err)
		return nil, err
	}

	return models.FromDomainGroup(group), nil
}

// ListGroups получает все группы типа рассадки
func (s *Service) ListGroups(ctx context.Context, seatingTypeID int64) (*models.GroupListResponse, error) {
	groups, err := s.groupRepo.ListBySeatingType(ctx, seatingTypeID)
	if err != nil {
		s.logger.Error("ListGroups: repository error for seatingType=%d: %v", seatingTypeID, err)
		return nil, fmt.Errorf("%w: ListGroups - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListGroups: fetched %d groups for seatingType=%d", len(groups), seatingTypeID)
	return models.FromDomainGroupList(groups), nil
}

// UpdateGroup меняет только скалярные поля; последовательность и комбинации не пересчитываются
func (s *Service) UpdateGroup(ctx context.Context, req *models.UpdateGroupRequest) (*models.GroupResponse, error) {
	s.logger.Info("UpdateGroup: group=%d name=%q pax=%d-%d active=%t", req.GroupID, req.Name, req.MinPax, req.MaxPax, req.IsActive)

	if err := validateScalars(req.Name, req.MinPax, req.MaxPax); err != nil {
		s.logger.Warn("UpdateGroup: validation failed: %v", err)
		return nil, err
	}

	var group *domain.GroupTable
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.groupRepo.GetByID(txCtx, req.GroupID)
		if err != nil {
			return s.mapRepoError("UpdateGroup", err)
		}
		before := *current

		current.Name = strings.TrimSpace(req.Name)
		current.MinPax = req.MinPax
		current.MaxPax = req.MaxPax
		current.IsActive = req.IsActive

		if err := s.groupRepo.Update(txCtx, current); err != nil {
			return s.mapRepoError("UpdateGroup", err)
		}
		group = current

		return s.writeAudit(txCtx, req.UserID, group.ID, domain.AuditActionUpdate, &before, group)
	})
	if err != nil {
		s.logError("UpdateGroup", err)
		return nil, err
	}

	s.logger.Info("UpdateGroup: updated group id=%d", group.ID)
	return models.FromDomainGroup(group), nil
}

// DeleteGroup удаляет связи, комбинации, последовательность и саму группу в одной транзакции
// Возвращает снимок группы до удаления
func (s *Service) DeleteGroup(ctx context.Context, groupID int64, userID int64) (*models.GroupResponse, error) {
	s.logger.Info("DeleteGroup: group=%d user=%d", groupID, userID)

	var snapshot *domain.GroupTable
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		group, err := s.groupRepo.GetByID(txCtx, groupID)
		if err != nil {
			return s.mapRepoError("DeleteGroup", err)
		}
		snapshot = group

		// Порядок важен: связи ссылаются на комбинации
		if err := s.groupRepo.DeleteLinksByGroup(txCtx, groupID); err != nil {
			return fmt.Errorf("%w: DeleteGroup - delete links: %v", ErrInternal, err)
		}
		if err := s.groupRepo.DeletePossibilitiesByGroup(txCtx, groupID); err != nil {
			return fmt.Errorf("%w: DeleteGroup - delete possibilities: %v", ErrInternal, err)
		}
		if err := s.groupRepo.DeleteSequence(txCtx, groupID); err != nil {
			return fmt.Errorf("%w: DeleteGroup - delete sequence: %v", ErrInternal, err)
		}
		if err := s.groupRepo.SoftDelete(txCtx, groupID); err != nil {
			return s.mapRepoError("DeleteGroup", err)
		}

		return s.writeAudit(txCtx, userID, groupID, domain.AuditActionDelete, group, nil)
	})
	if err != nil {
		s.logError("DeleteGroup", err)
		return nil, err
	}

	s.logger.Info("DeleteGroup: deleted group id=%d with %d possibilities", groupID, len(snapshot.Possibilities))
	return models.FromDomainGroup(snapshot), nil
}

// AddPossibility добавляет комбинацию вручную
// Каждый стол проверяется по последовательности группы отдельно, непрерывность не требуется.
// Комбинация с тем же набором столов (без учёта порядка) отклоняется.
func (s *Service) AddPossibility(ctx context.Context, req *models.AddPossibilityRequest) (*models.GroupResponse, error) {
	s.logger.Info("AddPossibility: group=%d tables=%v", req.GroupID, req.TableIDs)

	if err := validateTableIDs(req.TableIDs, domain.MinPossibilityTables); err != nil {
		s.logger.Warn("AddPossibility: validation failed: %v", err)
		return nil, err
	}

	var group *domain.GroupTable
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		group, err = s.groupRepo.GetByID(txCtx, req.GroupID)
		if err != nil {
			return s.mapRepoError("AddPossibility", err)
		}

		for _, tableID := range req.TableIDs {
			if !group.InSequence(tableID) {
				return fmt.Errorf("%w: AddPossibility - table %d is not in group %d", domain.ErrInvalidTable, tableID, group.ID)
			}
		}

		for _, existing := range group.Possibilities {
			if existing.SameTables(req.TableIDs) {
				return fmt.Errorf("%w: AddPossibility - matches possibility %d", domain.ErrDuplicatePossibility, existing.ID)
			}
		}

		// Ручные комбинации всегда получают индекс ManualPossibilityIndex
		possibility, err := s.groupRepo.CreatePossibility(txCtx, group.ID, domain.ManualPossibilityIndex, req.TableIDs)
		if err != nil {
			return fmt.Errorf("%w: AddPossibility - create possibility: %v", ErrInternal, err)
		}
		group.Possibilities = append(group.Possibilities, possibility)

		return s.writeAudit(txCtx, req.UserID, group.ID, domain.AuditActionAddPossibility, nil, possibility)
	})
	if err != nil {
		s.logError("AddPossibility", err)
		return nil, err
	}

	s.logger.Info("AddPossibility: group=%d now has %d possibilities", group.ID, len(group.Possibilities))
	return models.FromDomainGroup(group), nil
}

// DeletePossibility удаляет комбинацию группы вместе со связями
func (s *Service) DeletePossibility(ctx context.Context, groupID, possibilityID, userID int64) (*models.GroupResponse, error) {
	s.logger.Info("DeletePossibility: group=%d possibility=%d", groupID, possibilityID)

	var group *domain.GroupTable
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		group, err = s.groupRepo.GetByID(txCtx, groupID)
		if err != nil {
			return s.mapRepoError("DeletePossibility", err)
		}

		possibility := group.FindPossibility(possibilityID)
		if possibility == nil {
			return fmt.Errorf("%w: DeletePossibility - possibility %d is not in group %d", domain.ErrPossibilityNotFound, possibilityID, groupID)
		}

		if err := s.groupRepo.DeletePossibility(txCtx, groupID, possibilityID); err != nil {
			return s.mapRepoError("DeletePossibility", err)
		}

		remaining := make([]*domain.GroupPossibility, 0, len(group.Possibilities)-1)
		for _, p := range group.Possibilities {
			if p.ID != possibilityID {
				remaining = append(remaining, p)
			}
		}
		group.Possibilities = remaining

		return s.writeAudit(txCtx, userID, groupID, domain.AuditActionDeletePossibility, possibility, nil)
	})
	if err != nil {
		s.logError("DeletePossibility", err)
		return nil, err
	}

	s.logger.Info("DeletePossibility: group=%d now has %d possibilities", groupID, len(group.Possibilities))
	return models.FromDomainGroup(group), nil
}

// Вспомогательные методы

func (s *Service) writeAudit(ctx context.Context, userID, groupID int64, action string, before, after interface{}) error {
	change, err := s.audit.Diff(before, after)
	if err != nil {
		return fmt.Errorf("%w: audit diff: %v", ErrInternal, err)
	}
	if change.IsEmpty() {
		return nil
	}

	err = s.audit.Write(ctx, &domain.AuditRecord{
		Entity:   domain.AuditEntityGroupTable,
		EntityID: groupID,
		Action:   action,
		UserID:   userID,
		Change:   change,
	})
	if err != nil {
		return fmt.Errorf("%w: audit write: %v", ErrInternal, err)
	}

	return nil
}

// mapRepoError переводит ошибки репозитория в доменные
func (s *Service) mapRepoError(op string, err error) error {
	switch {
	case errors.Is(err, groupRepo.ErrGroupNotFound):
		return fmt.Errorf("%w: %s", domain.ErrGroupNotFound, op)
	case errors.Is(err, groupRepo.ErrPossibilityNotFound):
		return fmt.Errorf("%w: %s", domain.ErrPossibilityNotFound, op)
	default:
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

func (s *Service) logError(op string, err error) {
	if _, ok := domain.AsError(err); ok {
		s.logger.Warn("%s: %v", op, err)
		return
	}
	s.logger.Error("%s: %v", op, err)
}

func validateScalars(name string, minPax, maxPax int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if len([]rune(name)) > domain.MaxGroupNameLength {
		return fmt.Errorf("%w: name is longer than %d characters", domain.ErrInvalidInput, domain.MaxGroupNameLength)
	}
	if minPax < domain.MinGroupPax {
		return fmt.Errorf("%w: minPax must be at least %d", domain.ErrInvalidInput, domain.MinGroupPax)
	}
	if maxPax < minPax {
		return fmt.Errorf("%w: maxPax must not be less than minPax", domain.ErrInvalidInput)
	}
	return nil
}

func validateTableIDs(tableIDs []int64, minCount int) error {
	if len(tableIDs) < minCount {
		return fmt.Errorf("%w: at least %d tables are required", domain.ErrInvalidInput, minCount)
	}
	if domain.HasDuplicateIDs(tableIDs) {
		return fmt.Errorf("%w: table ids must be unique", domain.ErrInvalidInput)
	}
	return nil
}

// firstMissing возвращает первый запрошенный стол, которого нет среди найденных
func firstMissing(requested []int64, found []*domain.OutletTable) (int64, bool) {
	present := make(map[int64]struct{}, len(found))
	for _, t := range found {
		present[t.ID] = struct{}{}
	}
	for _, id := range requested {
		if _, ok := present[id]; !ok {
			return id, true
		}
	}
	return 0, false
}
