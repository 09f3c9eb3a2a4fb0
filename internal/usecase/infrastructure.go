package usecase

import "context"

// Tx — управляемая транзакция хранилища.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	IsActive() bool
}

// Transactor открывает транзакцию и кладёт её в контекст для репозиториев (см. pkg/tr).
type Transactor interface {
	NewTransaction(ctx context.Context) (context.Context, Tx, error)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
	Close() error
}
