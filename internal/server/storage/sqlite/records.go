package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/missionflow/internal/models"
	"github.com/iudanet/missionflow/internal/server/storage"
	"github.com/iudanet/missionflow/pkg/api"
)

// createdAtField поле строки, которое сервер заполняет при вставке
const createdAtField = "created_at"

// Insert stores a new row, generating an id when absent.
// Returns ErrRecordExists if a row with the same id exists.
func (s *Storage) Insert(ctx context.Context, collection string, record api.Record) (api.Record, error) {
	row := maps.Clone(record)
	if row == nil {
		row = api.Record{}
	}
	if row.ID() == "" {
		row[models.IdentityField] = uuid.NewString()
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getRow(ctx, tx, collection, row.ID()); err == nil {
			return storage.ErrRecordExists
		} else if !errors.Is(err, storage.ErrRecordNotFound) {
			return err
		}
		return s.insertRow(ctx, tx, collection, row)
	})
	if err != nil {
		return nil, err
	}

	return row, nil
}

// Get retrieves a single row by id
func (s *Storage) Get(ctx context.Context, collection, id string) (api.Record, error) {
	return getRow(ctx, s.db, collection, id)
}

// Update merges patch fields into an existing row
func (s *Storage) Update(ctx context.Context, collection, id string, patch api.Record) (api.Record, error) {
	var merged api.Record
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := getRow(ctx, tx, collection, id)
		if err != nil {
			return err
		}
		merged = merge(existing, patch, id)
		return s.updateRow(ctx, tx, collection, merged)
	})
	if err != nil {
		return nil, err
	}

	return merged, nil
}

// Upsert inserts the row or merges fields into the existing one
func (s *Storage) Upsert(ctx context.Context, collection, id string, record api.Record) (api.Record, bool, error) {
	var (
		result  api.Record
		created bool
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := getRow(ctx, tx, collection, id)
		switch {
		case errors.Is(err, storage.ErrRecordNotFound):
			created = true
			result = merge(api.Record{}, record, id)
			return s.insertRow(ctx, tx, collection, result)
		case err != nil:
			return err
		}
		result = merge(existing, record, id)
		return s.updateRow(ctx, tx, collection, result)
	})
	if err != nil {
		return nil, false, err
	}

	return result, created, nil
}

// Delete removes a row; missing rows are not an error
func (s *Storage) Delete(ctx context.Context, collection, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete record: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return n > 0, nil
}

// Select returns rows of the collection matching the query
func (s *Storage) Select(ctx context.Context, collection string, q api.Query) ([]api.Record, error) {
	if err := storage.ValidateQuery(q); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM records WHERE collection = ? ORDER BY updated_at, id`, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var records []api.Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		r, err := decode(data)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return storage.ApplyQuery(records, q)
}

// Count возвращает количество строк коллекции
func (s *Storage) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE collection = ?`, collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

// Ping проверяет соединение с БД
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getRow(ctx context.Context, q queryer, collection, id string) (api.Record, error) {
	var data string
	err := q.QueryRowContext(ctx,
		`SELECT data FROM records WHERE collection = ? AND id = ?`, collection, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return decode(data)
}

func (s *Storage) insertRow(ctx context.Context, tx *sql.Tx, collection string, row api.Record) error {
	now := s.clock.Now().UTC()
	if _, ok := row[createdAtField]; !ok {
		row[createdAtField] = now.Format(time.RFC3339Nano)
	}

	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO records (collection, id, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		collection, row.ID(), string(data), now.UnixNano(), now.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

func (s *Storage) updateRow(ctx context.Context, tx *sql.Tx, collection string, row api.Record) error {
	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE records SET data = ?, updated_at = ? WHERE collection = ? AND id = ?`,
		string(data), s.clock.Now().UTC().UnixNano(), collection, row.ID())
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	return nil
}

func (s *Storage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// merge накладывает поля patch поверх base; id из пути неизменен
func merge(base, patch api.Record, id string) api.Record {
	out := maps.Clone(base)
	if out == nil {
		out = api.Record{}
	}
	maps.Copy(out, patch)
	out[models.IdentityField] = id
	return out
}

func decode(data string) (api.Record, error) {
	var r api.Record
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return r, nil
}
