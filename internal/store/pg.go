package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table          = "custom_prizes"
	colSeq         = "seq"
	colID          = "id"
	colSubmitter   = "submitter_name"
	colEmail       = "submitter_email"
	colPlushName   = "plush_name"
	colPlushRarity = "plush_rarity"
	colDescription = "description"
	colSubmittedAt = "submitted_at"
	colImageData   = "image_data"
)

// Schema creates the submissions table. seq keeps insertion order.
const Schema = `CREATE TABLE IF NOT EXISTS custom_prizes (
	seq             BIGSERIAL PRIMARY KEY,
	id              UUID NOT NULL UNIQUE,
	submitter_name  TEXT NOT NULL,
	submitter_email TEXT NOT NULL DEFAULT '',
	plush_name      TEXT NOT NULL,
	plush_rarity    TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	submitted_at    TIMESTAMPTZ NOT NULL,
	image_data      TEXT NOT NULL
)`

var columns = []string{colID, colSubmitter, colEmail, colPlushName, colPlushRarity, colDescription, colSubmittedAt, colImageData}

// PGStore keeps submissions in Postgres.
type PGStore struct {
	db        *pgxpool.Pool
	txManager trm.Manager
	getter    *trmpgx.CtxGetter
}

// NewPGStore wraps an open pool.
func NewPGStore(db *pgxpool.Pool) (*PGStore, error) {
	m, err := manager.New(trmpgx.NewDefaultFactory(db))
	if err != nil {
		return nil, fmt.Errorf("create tx manager: %w", err)
	}
	return &PGStore{db: db, txManager: m, getter: trmpgx.DefaultCtxGetter}, nil
}

// Connect opens a pool for dsn, pings it and creates the table.
func Connect(ctx context.Context, dsn string) (*PGStore, error) {
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	s, err := NewPGStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the table if it is missing.
func (s *PGStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}
	return nil
}

// Close releases the pool.
func (s *PGStore) Close() { s.db.Close() }

func (s *PGStore) List(ctx context.Context) ([]Submission, error) {
	query := sq.Select(columns...).
		From(table).
		OrderBy(colSeq).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.getter.DefaultTrOrDB(ctx, s.db).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(&sub.ID, &sub.SubmitterName, &sub.SubmitterEmail, &sub.PlushName,
			&sub.PlushRarity, &sub.Description, &sub.Timestamp, &sub.ImageData); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *PGStore) Add(ctx context.Context, sub Submission) (Submission, error) {
	query := sq.Insert(table).
		Columns(columns...).
		Values(sub.ID, sub.SubmitterName, sub.SubmitterEmail, sub.PlushName,
			sub.PlushRarity, sub.Description, sub.Timestamp, sub.ImageData).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return Submission{}, err
	}
	if _, err := s.getter.DefaultTrOrDB(ctx, s.db).Exec(ctx, sqlStr, args...); err != nil {
		return Submission{}, fmt.Errorf("insert submission: %w", err)
	}
	return sub, nil
}

// DeleteAt finds the row at index and deletes it inside one transaction, so
// a concurrent insert cannot shift the target between the two statements.
func (s *PGStore) DeleteAt(ctx context.Context, index int) error {
	if index < 0 {
		return indexError(index, 0)
	}
	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		tr := s.getter.DefaultTrOrDB(txCtx, s.db)

		find := sq.Select(colID).
			From(table).
			OrderBy(colSeq).
			Limit(1).
			Offset(uint64(index)).
			Suffix("FOR UPDATE").
			PlaceholderFormat(sq.Dollar)
		sqlStr, args, err := find.ToSql()
		if err != nil {
			return err
		}
		var id string
		if err := tr.QueryRow(txCtx, sqlStr, args...).Scan(&id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("index %d: %w", index, ErrNotFound)
			}
			return fmt.Errorf("find submission: %w", err)
		}

		del := sq.Delete(table).
			Where(sq.Eq{colID: id}).
			PlaceholderFormat(sq.Dollar)
		sqlStr, args, err = del.ToSql()
		if err != nil {
			return err
		}
		if _, err := tr.Exec(txCtx, sqlStr, args...); err != nil {
			return fmt.Errorf("delete submission: %w", err)
		}
		return nil
	})
}
