package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/varoOP/mediadb/internal/domain"
	"github.com/varoOP/mediadb/internal/media"
	"github.com/varoOP/mediadb/internal/migrate"
)

// ErrRecordNotFound is returned by Get for unknown (dataSource, id) pairs.
var ErrRecordNotFound = errors.New("record not found")

// recordNamespace seeds the deterministic uid of every stored record.
var recordNamespace = uuid.MustParse("6f1c2a9e-4b3d-5e7f-8a90-1b2c3d4e5f60")

// RecordUID derives the stable identifier of a (dataSource, id) pair.
func RecordUID(dataSource, id string) string {
	return uuid.NewSHA1(recordNamespace, []byte(dataSource+":"+id)).String()
}

// RecordRepo implements domain.RecordRepository
type RecordRepo struct {
	log zerolog.Logger
	db  *DB
}

var _ domain.RecordRepository = (*RecordRepo)(nil)

// NewRecordRepo creates a new record repository
func NewRecordRepo(log zerolog.Logger, db *DB) *RecordRepo {
	return &RecordRepo{
		log: log.With().Str("repo", "records").Logger(),
		db:  db,
	}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Upsert inserts or replaces r, keyed by its data source and id.
func (r *RecordRepo) Upsert(ctx context.Context, rec media.Record) (*domain.StoredRecord, error) {
	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	return r.upsert(ctx, r.db.handler, rec)
}

// UpsertMany stores all records in one transaction.
func (r *RecordRepo) UpsertMany(ctx context.Context, records []media.Record) (int, error) {
	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, rec := range records {
		if _, err := r.upsert(ctx, tx, rec); err != nil {
			return 0, errors.Wrapf(err, "failed to store %s", media.Identity(rec))
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "error committing transaction")
	}
	return len(records), nil
}

func (r *RecordRepo) upsert(ctx context.Context, ex execer, rec media.Record) (*domain.StoredRecord, error) {
	base := rec.Common()
	if base.DataSource == "" || base.ID == "" {
		return nil, errors.Errorf("record %q has no data source or id", rec.Summary())
	}

	stored := &domain.StoredRecord{
		UID:        RecordUID(base.DataSource, base.ID),
		Type:       string(rec.MediaType()),
		DataSource: base.DataSource,
		ID:         base.ID,
		Title:      base.Title,
		Year:       base.Year,
		Data:       migrate.ToMap(rec),
		UpdatedAt:  time.Now().UTC().Truncate(time.Second),
	}

	data, err := json.Marshal(stored.Data)
	if err != nil {
		return nil, errors.Wrap(err, "error encoding record")
	}

	queryBuilder := r.db.squirrel.
		Replace("records").
		Columns("uid", "type", "data_source", "id", "title", "year", "data", "updated_at").
		Values(stored.UID, stored.Type, stored.DataSource, stored.ID, stored.Title, stored.Year, string(data), stored.UpdatedAt.Format(time.RFC3339))

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Upsert")

	if _, err := ex.ExecContext(ctx, query, args...); err != nil {
		return nil, errors.Wrap(err, "error executing query")
	}
	return stored, nil
}

func (r *RecordRepo) selectRecords() sq.SelectBuilder {
	return r.db.squirrel.
		Select("uid", "type", "data_source", "id", "title", "year", "data", "updated_at").
		From("records")
}

// Get returns the record stored for dataSource and id.
func (r *RecordRepo) Get(ctx context.Context, dataSource, id string) (*domain.StoredRecord, error) {
	r.db.lock.RLock()
	defer r.db.lock.RUnlock()

	queryBuilder := r.selectRecords().
		Where(sq.Eq{"data_source": dataSource, "id": id})

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Get")

	row := r.db.handler.QueryRowContext(ctx, query, args...)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrRecordNotFound, "%s:%s", dataSource, id)
	}
	return rec, err
}

// List returns the stored records of type t, or of every type when t is
// empty, ordered by title.
func (r *RecordRepo) List(ctx context.Context, t media.MediaType) ([]*domain.StoredRecord, error) {
	r.db.lock.RLock()
	defer r.db.lock.RUnlock()

	queryBuilder := r.selectRecords().OrderBy("title", "uid")
	if t != "" {
		queryBuilder = queryBuilder.Where(sq.Eq{"type": string(t)})
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("List")

	rows, err := r.db.handler.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "error executing query")
	}
	defer rows.Close()

	var result []*domain.StoredRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating rows")
	}
	return result, nil
}

// Count returns the number of stored records.
func (r *RecordRepo) Count(ctx context.Context) (int, error) {
	r.db.lock.RLock()
	defer r.db.lock.RUnlock()

	query, args, err := r.db.squirrel.Select("COUNT(*)").From("records").ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Count")

	var n int
	if err := r.db.handler.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "error executing query")
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*domain.StoredRecord, error) {
	var (
		rec       domain.StoredRecord
		data      string
		updatedAt string
	)
	if err := s.Scan(&rec.UID, &rec.Type, &rec.DataSource, &rec.ID, &rec.Title, &rec.Year, &data, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errors.Wrap(err, "error scanning row")
	}

	// Rows written by older versions may not decode into an object; the
	// migrator treats a nil map like any other unusable payload.
	if err := json.Unmarshal([]byte(data), &rec.Data); err != nil {
		rec.Data = nil
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		rec.UpdatedAt = t
	}
	return &rec, nil
}
