package history

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"rebatch/internal/model"
)

// MockStore implements Store in memory for tests. Batches and their
// operations are stored directly in maps, inspectable by test code
// without a database round-trip.
type MockStore struct {
	Batches    map[string]model.Batch
	Operations map[string][]model.UndoRecord // keyed by batch ID
}

// NewMockStore creates an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		Batches:    make(map[string]model.Batch),
		Operations: make(map[string][]model.UndoRecord),
	}
}

func (m *MockStore) Close() error { return nil }

func (m *MockStore) RecordBatch(ctx context.Context, batch model.Batch, report model.ExecutionReport) (string, error) {
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}
	if batch.Timestamp.IsZero() {
		batch.Timestamp = time.Now()
	}

	ordinalOf := make(map[int]int, len(report.Results))
	for ordinal, res := range report.Results {
		ordinalOf[res.Operation.PlanIndex] = ordinal
	}

	records := make([]model.UndoRecord, 0, len(report.Results))
	for ordinal, res := range report.Results {
		rec := model.UndoRecord{
			BatchID:      batch.ID,
			Ordinal:      ordinal,
			OriginalPath: res.Operation.SourcePath,
			FinalPath:    res.FinalPath,
			CaseOnly:     res.Operation.CaseOnly,
			Outcome:      res.Outcome.Kind,
		}
		if res.Operation.IsCompanion {
			if principalOrdinal, ok := ordinalOf[res.Operation.PrincipalID]; ok {
				v := principalOrdinal
				rec.CompanionOf = &v
			}
		}
		records = append(records, rec)
	}

	m.Batches[batch.ID] = batch
	m.Operations[batch.ID] = records
	return batch.ID, nil
}

func (m *MockStore) GetBatch(ctx context.Context, id string) (model.Batch, error) {
	batch, ok := m.Batches[id]
	if !ok {
		return model.Batch{}, ErrBatchNotFound
	}
	return batch, nil
}

func (m *MockStore) ListBatches(ctx context.Context, limit int) ([]model.Batch, error) {
	batches := make([]model.Batch, 0, len(m.Batches))
	for _, b := range m.Batches {
		batches = append(batches, b)
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i].Timestamp.After(batches[j].Timestamp) })
	if limit > 0 && limit < len(batches) {
		batches = batches[:limit]
	}
	return batches, nil
}

func (m *MockStore) ListOperations(ctx context.Context, batchID string) ([]model.UndoRecord, error) {
	if _, ok := m.Batches[batchID]; !ok {
		return nil, ErrBatchNotFound
	}
	return m.Operations[batchID], nil
}

func (m *MockStore) MarkUndone(ctx context.Context, batchID string) error {
	batch, ok := m.Batches[batchID]
	if !ok {
		return ErrBatchNotFound
	}
	batch.Status = model.BatchUndone
	m.Batches[batchID] = batch
	return nil
}

func (m *MockStore) Prune(ctx context.Context, olderThan time.Time, keepLast int) (int, error) {
	type idTime struct {
		id string
		ts time.Time
	}
	all := make([]idTime, 0, len(m.Batches))
	for id, b := range m.Batches {
		all = append(all, idTime{id, b.Timestamp})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ts.After(all[j].ts) })
	if keepLast > len(all) {
		keepLast = len(all)
	}

	var deleted int
	for _, it := range all[keepLast:] {
		if it.ts.After(olderThan) {
			continue
		}
		delete(m.Batches, it.id)
		delete(m.Operations, it.id)
		deleted++
	}
	return deleted, nil
}
