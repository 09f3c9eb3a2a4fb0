package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// IdempotencyRepo хранит зафиксированные результаты команд по клиентским ключам.
type IdempotencyRepo struct {
	pool *pgxpool.Pool
}

func NewIdempotencyRepo(pool *pgxpool.Pool) *IdempotencyRepo {
	return &IdempotencyRepo{pool: pool}
}

// Get возвращает запись по ключу или (nil, nil), если ключ ещё не встречался.
func (r *IdempotencyRepo) Get(ctx context.Context, key string) (*usecase.IdempotencyRecord, error) {
	query := `
		SELECT key, request_hash, status_code, response, created_at
		FROM idempotency_keys
		WHERE key = $1
	`

	var record usecase.IdempotencyRecord
	err := r.pool.QueryRow(ctx, query, key).Scan(
		&record.Key, &record.RequestHash, &record.StatusCode, &record.Response, &record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &record, nil
}

// Create вставляет запись в рамках текущей транзакции команды: ключ фиксируется
// тем же коммитом, что и эффекты. Возвращает false при конкурентном дубликате.
func (r *IdempotencyRepo) Create(ctx context.Context, record *usecase.IdempotencyRecord) (bool, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO idempotency_keys (key, request_hash, status_code, response, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO NOTHING
	`

	result, err := tx.Exec(ctx, query,
		record.Key, record.RequestHash, record.StatusCode, record.Response, record.CreatedAt,
	)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return result.RowsAffected() == 1, nil
}
