package groups

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-TableService/internal/domain"
	groupRepo "github.com/m04kA/SMC-TableService/internal/infra/storage/group"
	"github.com/m04kA/SMC-TableService/internal/service/audit"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fakeGroupRepo хранит группы в памяти с той же каскадной структурой, что и таблицы БД
type fakeGroupRepo struct {
	state  groupState
	failOn map[string]error
}

type groupState struct {
	nextGroupID       int64
	nextPossibilityID int64
	groups            map[int64]domain.GroupTable
	deleted           map[int64]bool
	sequences         map[int64][]int64
	possibilities     map[int64]domain.GroupPossibility // без TableIDs
	links             map[int64][]int64                 // possibility id -> table ids
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{
		state: groupState{
			groups:        map[int64]domain.GroupTable{},
			deleted:       map[int64]bool{},
			sequences:     map[int64][]int64{},
			possibilities: map[int64]domain.GroupPossibility{},
			links:         map[int64][]int64{},
		},
		failOn: map[string]error{},
	}
}

func (f *fakeGroupRepo) snapshot() groupState {
	s := groupState{
		nextGroupID:       f.state.nextGroupID,
		nextPossibilityID: f.state.nextPossibilityID,
		groups:            map[int64]domain.GroupTable{},
		deleted:           map[int64]bool{},
		sequences:         map[int64][]int64{},
		possibilities:     map[int64]domain.GroupPossibility{},
		links:             map[int64][]int64{},
	}
	for k, v := range f.state.groups {
		s.groups[k] = v
	}
	for k, v := range f.state.deleted {
		s.deleted[k] = v
	}
	for k, v := range f.state.sequences {
		s.sequences[k] = append([]int64{}, v...)
	}
	for k, v := range f.state.possibilities {
		s.possibilities[k] = v
	}
	for k, v := range f.state.links {
		s.links[k] = append([]int64{}, v...)
	}
	return s
}

func (f *fakeGroupRepo) fail(method string) error {
	return f.failOn[method]
}

func (f *fakeGroupRepo) CreateGroup(_ context.Context, group *domain.GroupTable) (*domain.GroupTable, error) {
	if err := f.fail("CreateGroup"); err != nil {
		return nil, err
	}
	f.state.nextGroupID++
	group.ID = f.state.nextGroupID
	f.state.groups[group.ID] = *group
	return group, nil
}

func (f *fakeGroupRepo) CreateSequence(_ context.Context, groupID int64, tableIDs []int64) error {
	if err := f.fail("CreateSequence"); err != nil {
		return err
	}
	f.state.sequences[groupID] = append([]int64{}, tableIDs...)
	return nil
}

func (f *fakeGroupRepo) CreatePossibility(_ context.Context, groupID int64, index int, tableIDs []int64) (*domain.GroupPossibility, error) {
	if err := f.fail("CreatePossibility"); err != nil {
		return nil, err
	}
	f.state.nextPossibilityID++
	p := domain.GroupPossibility{ID: f.state.nextPossibilityID, GroupTableID: groupID, Index: index}
	f.state.possibilities[p.ID] = p
	f.state.links[p.ID] = append([]int64{}, tableIDs...)

	p.TableIDs = append([]int64{}, tableIDs...)
	return &p, nil
}

func (f *fakeGroupRepo) GetByID(_ context.Context, id int64) (*domain.GroupTable, error) {
	if err := f.fail("GetByID"); err != nil {
		return nil, err
	}
	g, ok := f.state.groups[id]
	if !ok || f.state.deleted[id] {
		return nil, groupRepo.ErrGroupNotFound
	}
	return f.materialize(g), nil
}

func (f *fakeGroupRepo) ListBySeatingType(_ context.Context, seatingTypeID int64) ([]*domain.GroupTable, error) {
	if err := f.fail("ListBySeatingType"); err != nil {
		return nil, err
	}
	ids := make([]int64, 0)
	for id, g := range f.state.groups {
		if g.OutletSeatingTypeID == seatingTypeID && !f.state.deleted[id] {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*domain.GroupTable, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.materialize(f.state.groups[id]))
	}
	return out, nil
}

func (f *fakeGroupRepo) Update(_ context.Context, group *domain.GroupTable) error {
	if err := f.fail("Update"); err != nil {
		return err
	}
	g, ok := f.state.groups[group.ID]
	if !ok || f.state.deleted[group.ID] {
		return groupRepo.ErrGroupNotFound
	}
	g.Name = group.Name
	g.MinPax = group.MinPax
	g.MaxPax = group.MaxPax
	g.IsActive = group.IsActive
	f.state.groups[group.ID] = g
	return nil
}

func (f *fakeGroupRepo) DeleteLinksByGroup(_ context.Context, groupID int64) error {
	if err := f.fail("DeleteLinksByGroup"); err != nil {
		return err
	}
	for id, p := range f.state.possibilities {
		if p.GroupTableID == groupID {
			delete(f.state.links, id)
		}
	}
	return nil
}

func (f *fakeGroupRepo) DeletePossibilitiesByGroup(_ context.Context, groupID int64) error {
	if err := f.fail("DeletePossibilitiesByGroup"); err != nil {
		return err
	}
	for id, p := range f.state.possibilities {
		if p.GroupTableID == groupID {
			if _, linked := f.state.links[id]; linked {
				return fmt.Errorf("fk violation: possibility %d still has links", id)
			}
			delete(f.state.possibilities, id)
		}
	}
	return nil
}

func (f *fakeGroupRepo) DeleteSequence(_ context.Context, groupID int64) error {
	if err := f.fail("DeleteSequence"); err != nil {
		return err
	}
	delete(f.state.sequences, groupID)
	return nil
}

func (f *fakeGroupRepo) SoftDelete(_ context.Context, groupID int64) error {
	if err := f.fail("SoftDelete"); err != nil {
		return err
	}
	if _, ok := f.state.groups[groupID]; !ok || f.state.deleted[groupID] {
		return groupRepo.ErrGroupNotFound
	}
	f.state.deleted[groupID] = true
	return nil
}

func (f *fakeGroupRepo) DeletePossibility(_ context.Context, groupID, possibilityID int64) error {
	if err := f.fail("DeletePossibility"); err != nil {
		return err
	}
	p, ok := f.state.possibilities[possibilityID]
	if !ok || p.GroupTableID != groupID {
		return groupRepo.ErrPossibilityNotFound
	}
	delete(f.state.links, possibilityID)
	delete(f.state.possibilities, possibilityID)
	return nil
}

func (f *fakeGroupRepo) materialize(g domain.GroupTable) *domain.GroupTable {
	out := g
	out.Sequence = append([]int64{}, f.state.sequences[g.ID]...)

	ids := make([]int64, 0)
	for id, p := range f.state.possibilities {
		if p.GroupTableID == g.ID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out.Possibilities = make([]*domain.GroupPossibility, 0, len(ids))
	for _, id := range ids {
		p := f.state.possibilities[id]
		p.TableIDs = append([]int64{}, f.state.links[id]...)
		out.Possibilities = append(out.Possibilities, &p)
	}
	return &out
}

func (f *fakeGroupRepo) possibilityCount(groupID int64) int {
	n := 0
	for _, p := range f.state.possibilities {
		if p.GroupTableID == groupID {
			n++
		}
	}
	return n
}

type fakeTableRepo struct {
	tables []*domain.OutletTable
	err    error
}

func (f *fakeTableRepo) FindByIDsAndSeatingType(_ context.Context, ids []int64, seatingTypeID int64) ([]*domain.OutletTable, error) {
	if f.err != nil {
		return nil, f.err
	}
	wanted := map[int64]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	out := make([]*domain.OutletTable, 0)
	for _, t := range f.tables {
		if wanted[t.ID] && t.OutletSeatingTypeID == seatingTypeID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeAudit struct {
	records []*domain.AuditRecord
	err     error
}

func (f *fakeAudit) Diff(before, after interface{}) (domain.ContentChange, error) {
	return audit.Diff(before, after)
}

func (f *fakeAudit) Write(_ context.Context, record *domain.AuditRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

// fakeTxManager выполняет функцию сразу и откатывает состояние репозитория при ошибке
type fakeTxManager struct {
	repo  *fakeGroupRepo
	calls int
}

func (m *fakeTxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	var saved groupState
	if m.repo != nil {
		saved = m.repo.snapshot()
	}
	if err := fn(ctx); err != nil {
		if m.repo != nil {
			m.repo.state = saved
		}
		return err
	}
	return nil
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}
