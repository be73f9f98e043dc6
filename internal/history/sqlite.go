package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"rebatch/internal/model"
)

// SQLiteStore implements Store over a modernc.org/sqlite database.
// Schema follows spec §6 plus a status column on batches:
// batches(id, timestamp, pipeline_json, status),
// operations(batch_id, ordinal, original_path, final_path, case_only
// INT, companion_of INT NULL, outcome TEXT).
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if necessary) the history database
// at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, model.Fatal(fmt.Errorf("opening history database %s: %w", path, err))
	}
	if _, err := db.Exec(historySchemaSQL); err != nil {
		db.Close()
		return nil, model.Fatal(fmt.Errorf("initializing history schema: %w", err))
	}
	return &SQLiteStore{db: db}, nil
}

const historySchemaSQL = `
CREATE TABLE IF NOT EXISTS batches (
	id TEXT PRIMARY KEY,
	timestamp INTEGER NOT NULL,
	pipeline_json BLOB NOT NULL,
	status TEXT NOT NULL DEFAULT 'executed'
);
CREATE TABLE IF NOT EXISTS operations (
	batch_id TEXT NOT NULL REFERENCES batches(id),
	ordinal INTEGER NOT NULL,
	original_path TEXT NOT NULL,
	final_path TEXT NOT NULL,
	case_only INTEGER NOT NULL,
	companion_of INTEGER,
	outcome TEXT NOT NULL,
	PRIMARY KEY (batch_id, ordinal)
);
`

func (s *SQLiteStore) Close() error { return s.db.Close() }

// RecordBatch persists batch and the per-operation rows report
// describes, assigning a fresh UUID if batch.ID is empty.
func (s *SQLiteStore) RecordBatch(ctx context.Context, batch model.Batch, report model.ExecutionReport) (string, error) {
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}
	if batch.Timestamp.IsZero() {
		batch.Timestamp = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", model.Fatal(fmt.Errorf("beginning history transaction: %w", err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO batches (id, timestamp, pipeline_json, status) VALUES (?, ?, ?, ?)`,
		batch.ID, batch.Timestamp.Unix(), batch.PipelineSnapshot, string(batch.Status),
	); err != nil {
		return "", model.Fatal(fmt.Errorf("recording batch: %w", err))
	}

	// PrincipalID refers to another operation's PlanIndex (its stable
	// position in BuildPlan's flat output), not to the ordinal it ends
	// up recorded under here — per-directory execution reorders
	// operations relative to that flat plan. Resolve PlanIndex ->
	// ordinal first so companion_of always points at the right row.
	ordinalOf := make(map[int]int, len(report.Results))
	for ordinal, res := range report.Results {
		ordinalOf[res.Operation.PlanIndex] = ordinal
	}

	for ordinal, res := range report.Results {
		var companionOf any
		if res.Operation.IsCompanion {
			if principalOrdinal, ok := ordinalOf[res.Operation.PrincipalID]; ok {
				companionOf = principalOrdinal
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO operations (batch_id, ordinal, original_path, final_path, case_only, companion_of, outcome)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			batch.ID, ordinal, res.Operation.SourcePath, res.FinalPath,
			boolToInt(res.Operation.CaseOnly), companionOf, string(res.Outcome.Kind),
		); err != nil {
			return "", model.Fatal(fmt.Errorf("recording operation %d: %w", ordinal, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return "", model.Fatal(fmt.Errorf("committing history transaction: %w", err))
	}
	return batch.ID, nil
}

func (s *SQLiteStore) GetBatch(ctx context.Context, id string) (model.Batch, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, timestamp, pipeline_json, status FROM batches WHERE id = ?`, id)

	var batch model.Batch
	var ts int64
	var status string
	if err := row.Scan(&batch.ID, &ts, &batch.PipelineSnapshot, &status); err != nil {
		if err == sql.ErrNoRows {
			return model.Batch{}, ErrBatchNotFound
		}
		return model.Batch{}, model.Permanent(fmt.Errorf("reading batch %s: %w", id, err))
	}
	batch.Timestamp = time.Unix(ts, 0)
	batch.Status = model.BatchStatus(status)
	return batch, nil
}

func (s *SQLiteStore) ListBatches(ctx context.Context, limit int) ([]model.Batch, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, pipeline_json, status FROM batches ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, model.Permanent(fmt.Errorf("listing batches: %w", err))
	}
	defer rows.Close()

	var batches []model.Batch
	for rows.Next() {
		var batch model.Batch
		var ts int64
		var status string
		if err := rows.Scan(&batch.ID, &ts, &batch.PipelineSnapshot, &status); err != nil {
			return nil, model.Permanent(fmt.Errorf("scanning batch row: %w", err))
		}
		batch.Timestamp = time.Unix(ts, 0)
		batch.Status = model.BatchStatus(status)
		batches = append(batches, batch)
	}
	return batches, rows.Err()
}

func (s *SQLiteStore) ListOperations(ctx context.Context, batchID string) ([]model.UndoRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ordinal, original_path, final_path, case_only, companion_of, outcome
		 FROM operations WHERE batch_id = ? ORDER BY ordinal ASC`, batchID)
	if err != nil {
		return nil, model.Permanent(fmt.Errorf("listing operations for batch %s: %w", batchID, err))
	}
	defer rows.Close()

	var records []model.UndoRecord
	for rows.Next() {
		var rec model.UndoRecord
		var caseOnly int
		var companionOf sql.NullInt64
		var outcome string
		if err := rows.Scan(&rec.Ordinal, &rec.OriginalPath, &rec.FinalPath, &caseOnly, &companionOf, &outcome); err != nil {
			return nil, model.Permanent(fmt.Errorf("scanning operation row: %w", err))
		}
		rec.BatchID = batchID
		rec.CaseOnly = caseOnly != 0
		rec.Outcome = model.OutcomeKind(outcome)
		if companionOf.Valid {
			v := int(companionOf.Int64)
			rec.CompanionOf = &v
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		if _, err := s.GetBatch(ctx, batchID); err != nil {
			return nil, err
		}
	}
	return records, rows.Err()
}

func (s *SQLiteStore) MarkUndone(ctx context.Context, batchID string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE batches SET status = ? WHERE id = ?`, string(model.BatchUndone), batchID)
	if err != nil {
		return model.Permanent(fmt.Errorf("marking batch %s undone: %w", batchID, err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBatchNotFound
	}
	return nil
}

// Prune deletes batches (and their operations) with a timestamp older
// than olderThan, always retaining the keepLast most recent batches
// regardless of age.
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Time, keepLast int) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, model.Fatal(fmt.Errorf("beginning prune transaction: %w", err))
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT id FROM batches ORDER BY timestamp DESC`)
	if err != nil {
		return 0, model.Permanent(fmt.Errorf("listing batches to prune: %w", err))
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, model.Permanent(fmt.Errorf("scanning batch id: %w", err))
		}
		ids = append(ids, id)
	}
	rows.Close()
	if keepLast > len(ids) {
		keepLast = len(ids)
	}
	candidates := ids[keepLast:]

	var deleted int
	for _, id := range candidates {
		var ts int64
		if err := tx.QueryRowContext(ctx, `SELECT timestamp FROM batches WHERE id = ?`, id).Scan(&ts); err != nil {
			continue
		}
		if time.Unix(ts, 0).After(olderThan) {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM operations WHERE batch_id = ?`, id); err != nil {
			return deleted, model.Permanent(fmt.Errorf("pruning operations for batch %s: %w", id, err))
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM batches WHERE id = ?`, id); err != nil {
			return deleted, model.Permanent(fmt.Errorf("pruning batch %s: %w", id, err))
		}
		deleted++
	}

	if err := tx.Commit(); err != nil {
		return deleted, model.Fatal(fmt.Errorf("committing prune transaction: %w", err))
	}
	return deleted, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
