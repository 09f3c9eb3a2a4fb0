package pgdb

import (
	"context"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
)

// TxManager открывает pgx-транзакции и кладёт их в контекст,
// откуда репозитории достают их через pkg/tr.
type TxManager struct {
	pool transaction.Transactional
}

func NewTxManager(pool transaction.Transactional) *TxManager {
	return &TxManager{pool: pool}
}

func (m *TxManager) NewTransaction(ctx context.Context) (context.Context, usecase.Tx, error) {
	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, m.pool)
	if err != nil {
		return ctx, nil, e.Wrap(whereami.WhereAmI(), err)
	}

	ctx = context.WithValue(ctx, "tx", tx.Transaction())
	return ctx, tx, nil
}
