package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/DRSN-tech/inventory-backend/pkg/e"
)

// requestHash — отпечаток команды для сверки повторов по ключу идемпотентности.
// Один и тот же ключ с другим телом запроса — ошибка, а не повтор.
func requestHash(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(sum[:])
}

// checkReplay ищет зафиксированный результат по ключу.
// Возвращает (nil, nil), если команда выполняется впервые.
func checkReplay(ctx context.Context, repo IdempotencyRepository, key, hash string) (*IdempotencyRecord, error) {
	if key == "" {
		return nil, e.ErrIdempotencyKeyRequired
	}

	record, err := repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	if record.RequestHash != hash {
		return nil, e.ErrIdempotencyConflict
	}

	return record, nil
}
