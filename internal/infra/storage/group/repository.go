package group

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TableService/internal/domain"
	"github.com/m04kA/SMC-TableService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TableService/pkg/psqlbuilder"
)

const (
	groupsTable        = "group_tables"
	sequencesTable     = "group_sequences"
	possibilitiesTable = "group_possibilities"
	linksTable         = "outlet_group_tables"
)

var groupColumns = []string{
	"id",
	"outlet_seating_type_id",
	"name",
	"min_pax",
	"max_pax",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий групп столов, их последовательностей и комбинаций
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория групп
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateGroup создает запись группы (без последовательности и комбинаций)
func (r *Repository) CreateGroup(ctx context.Context, group *domain.GroupTable) (*domain.GroupTable, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(groupsTable).
		Columns("outlet_seating_type_id", "name", "min_pax", "max_pax", "is_active").
		Values(group.OutletSeatingTypeID, group.Name, group.MinPax, group.MaxPax, group.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateGroup - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&group.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateGroup - execute insert: %w", ErrExecQuery, err)
	}

	group.CreatedAt = createdAt.Time
	group.UpdatedAt = updatedAt.Time

	return group, nil
}

// CreateSequence сохраняет упорядоченный список столов группы (позиции с 1)
func (r *Repository) CreateSequence(ctx context.Context, groupID int64, tableIDs []int64) error {
	if len(tableIDs) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert(sequencesTable).
		Columns("group_table_id", "table_id", "position")
	for i, tableID := range tableIDs {
		insertBuilder = insertBuilder.Values(groupID, tableID, i+1)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateSequence - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreateSequence - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// CreatePossibility создает комбинацию и её связи со столами
func (r *Repository) CreatePossibility(ctx context.Context, groupID int64, index int, tableIDs []int64) (*domain.GroupPossibility, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(possibilitiesTable).
		Columns("group_table_id", "possibility_index").
		Values(groupID, index).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreatePossibility - build insert query: %v", ErrBuildQuery, err)
	}

	possibility := &domain.GroupPossibility{
		GroupTableID: groupID,
		Index:        index,
		TableIDs:     append([]int64(nil), tableIDs...),
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&possibility.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreatePossibility - execute insert: %w", ErrExecQuery, err)
	}
	possibility.CreatedAt = createdAt.Time

	linksBuilder := psqlbuilder.Insert(linksTable).
		Columns("group_possibility_id", "table_id")
	for _, tableID := range tableIDs {
		linksBuilder = linksBuilder.Values(possibility.ID, tableID)
	}

	query, args, err = linksBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreatePossibility - build links query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: CreatePossibility - insert links: %w", ErrExecQuery, err)
	}

	return possibility, nil
}

// GetByID получает группу вместе с последовательностью и комбинациями
// Удалённые группы (deleted_at) не возвращаются. Внутри транзакции строка группы блокируется.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.GroupTable, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(groupColumns...).
		From(groupsTable).
		Where(squirrel.Eq{"id": id, "deleted_at": nil})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	group, err := scanGroup(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan group: %w", ErrScanRow, err)
	}

	if err := r.loadChildren(ctx, group); err != nil {
		return nil, err
	}

	return group, nil
}

// ListBySeatingType получает все неудалённые группы типа рассадки
func (r *Repository) ListBySeatingType(ctx context.Context, seatingTypeID int64) ([]*domain.GroupTable, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(groupColumns...).
		From(groupsTable).
		Where(squirrel.Eq{"outlet_seating_type_id": seatingTypeID, "deleted_at": nil}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySeatingType - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySeatingType - execute query: %w", ErrExecQuery, err)
	}

	groups := make([]*domain.GroupTable, 0)
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: ListBySeatingType - scan row: %w", ErrScanRow, err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("%w: ListBySeatingType - rows error: %w", ErrScanRow, err)
	}
	rows.Close()

	if err := r.loadChildren(ctx, groups...); err != nil {
		return nil, err
	}

	return groups, nil
}

// Update обновляет скалярные поля группы, последовательность и комбинации не трогает
func (r *Repository) Update(ctx context.Context, group *domain.GroupTable) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(groupsTable).
		Set("name", group.Name).
		Set("min_pax", group.MinPax).
		Set("max_pax", group.MaxPax).
		Set("is_active", group.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": group.ID, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrGroupNotFound
	}

	return nil
}

// DeleteLinksByGroup удаляет связи столов всех комбинаций группы
func (r *Repository) DeleteLinksByGroup(ctx context.Context, groupID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(linksTable).
		Where(squirrel.Expr(
			"group_possibility_id IN (SELECT id FROM "+possibilitiesTable+" WHERE group_table_id = ?)",
			groupID,
		)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteLinksByGroup - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteLinksByGroup - execute delete: %w", ErrExecQuery, err)
	}

	return nil
}

// DeletePossibilitiesByGroup удаляет все комбинации группы (связи должны быть удалены раньше)
func (r *Repository) DeletePossibilitiesByGroup(ctx context.Context, groupID int64) error {
	return r.deleteWhere(ctx, "DeletePossibilitiesByGroup", possibilitiesTable, squirrel.Eq{"group_table_id": groupID})
}

// DeleteSequence удаляет последовательность столов группы
func (r *Repository) DeleteSequence(ctx context.Context, groupID int64) error {
	return r.deleteWhere(ctx, "DeleteSequence", sequencesTable, squirrel.Eq{"group_table_id": groupID})
}

// SoftDelete помечает группу удалённой и неактивной
func (r *Repository) SoftDelete(ctx context.Context, groupID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(groupsTable).
		Set("is_active", false).
		Set("deleted_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": groupID, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SoftDelete - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SoftDelete - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SoftDelete - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrGroupNotFound
	}

	return nil
}

// DeletePossibility удаляет связи и саму комбинацию, если она принадлежит группе
func (r *Repository) DeletePossibility(ctx context.Context, groupID, possibilityID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if err := r.deleteWhere(ctx, "DeletePossibility", linksTable, squirrel.Eq{"group_possibility_id": possibilityID}); err != nil {
		return err
	}

	query, args, err := psqlbuilder.Delete(possibilitiesTable).
		Where(squirrel.Eq{"id": possibilityID, "group_table_id": groupID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeletePossibility - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeletePossibility - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeletePossibility - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrPossibilityNotFound
	}

	return nil
}

func (r *Repository) deleteWhere(ctx context.Context, op, table string, where squirrel.Eq) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).Where(where).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build delete query: %v", ErrBuildQuery, op, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %s - execute delete from %s: %w", ErrExecQuery, op, table, err)
	}

	return nil
}

// loadChildren дочитывает последовательности и комбинации групп: по одному запросу на весь список
func (r *Repository) loadChildren(ctx context.Context, groups ...*domain.GroupTable) error {
	if len(groups) == 0 {
		return nil
	}

	groupIDs := make([]int64, len(groups))
	for i, group := range groups {
		groupIDs[i] = group.ID
	}

	sequences, err := r.getSequences(ctx, groupIDs)
	if err != nil {
		return err
	}

	possibilities, err := r.getPossibilities(ctx, groupIDs)
	if err != nil {
		return err
	}

	attachChildren(groups, sequences, possibilities)
	return nil
}

// attachChildren раскладывает прочитанные строки по группам; у группы без строк пустые срезы
func attachChildren(groups []*domain.GroupTable, sequences map[int64][]int64, possibilities map[int64][]*domain.GroupPossibility) {
	for _, group := range groups {
		group.Sequence = sequences[group.ID]
		if group.Sequence == nil {
			group.Sequence = make([]int64, 0)
		}
		group.Possibilities = possibilities[group.ID]
		if group.Possibilities == nil {
			group.Possibilities = make([]*domain.GroupPossibility, 0)
		}
	}
}

func buildSequencesQuery(groupIDs []int64) (string, []interface{}, error) {
	return psqlbuilder.Select("group_table_id", "table_id").
		From(sequencesTable).
		Where(squirrel.Eq{"group_table_id": groupIDs}).
		OrderBy("group_table_id ASC", "position ASC").
		ToSql()
}

func (r *Repository) getSequences(ctx context.Context, groupIDs []int64) (map[int64][]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildSequencesQuery(groupIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: getSequences - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getSequences - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	sequences := make(map[int64][]int64, len(groupIDs))
	for rows.Next() {
		var groupID, tableID int64
		if err := rows.Scan(&groupID, &tableID); err != nil {
			return nil, fmt.Errorf("%w: getSequences - scan row: %w", ErrScanRow, err)
		}
		sequences[groupID] = append(sequences[groupID], tableID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getSequences - rows error: %w", ErrScanRow, err)
	}

	return sequences, nil
}

func buildPossibilitiesQuery(groupIDs []int64) (string, []interface{}, error) {
	return psqlbuilder.Select(
		"gp.id",
		"gp.group_table_id",
		"gp.possibility_index",
		"gp.created_at",
		"ogt.table_id",
	).
		From(possibilitiesTable + " gp").
		LeftJoin(linksTable + " ogt ON ogt.group_possibility_id = gp.id").
		Where(squirrel.Eq{"gp.group_table_id": groupIDs}).
		OrderBy("gp.id ASC", "ogt.id ASC").
		ToSql()
}

func (r *Repository) getPossibilities(ctx context.Context, groupIDs []int64) (map[int64][]*domain.GroupPossibility, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildPossibilitiesQuery(groupIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: getPossibilities - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getPossibilities - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	possibilities := make(map[int64][]*domain.GroupPossibility, len(groupIDs))
	var current *domain.GroupPossibility
	for rows.Next() {
		var (
			id        int64
			gid       int64
			index     int
			createdAt sql.NullTime
			tableID   sql.NullInt64
		)
		if err := rows.Scan(&id, &gid, &index, &createdAt, &tableID); err != nil {
			return nil, fmt.Errorf("%w: getPossibilities - scan row: %w", ErrScanRow, err)
		}

		if current == nil || current.ID != id {
			current = &domain.GroupPossibility{
				ID:           id,
				GroupTableID: gid,
				Index:        index,
				TableIDs:     make([]int64, 0),
				CreatedAt:    createdAt.Time,
			}
			possibilities[gid] = append(possibilities[gid], current)
		}
		if tableID.Valid {
			current.TableIDs = append(current.TableIDs, tableID.Int64)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getPossibilities - rows error: %w", ErrScanRow, err)
	}

	return possibilities, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGroup(row rowScanner) (*domain.GroupTable, error) {
	var group domain.GroupTable
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&group.ID,
		&group.OutletSeatingTypeID,
		&group.Name,
		&group.MinPax,
		&group.MaxPax,
		&group.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	group.CreatedAt = createdAt.Time
	group.UpdatedAt = updatedAt.Time

	return &group, nil
}
