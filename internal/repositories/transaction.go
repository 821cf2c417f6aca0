package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// TxManagerInterface нужен там, где чтение с блокировкой строки и запись
// должны пройти атомарно: правка тикета, правка и закрытие смены.
type TxManagerInterface interface {
	RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error
}

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type TxManager struct {
	db     txBeginner
	logger *zap.Logger
}

func NewTxManager(pool *pgxpool.Pool, logger *zap.Logger) TxManagerInterface {
	return &TxManager{db: pool, logger: logger}
}

// RunInTransaction фиксирует транзакцию, если fn вернула nil.
// Ошибка или паника в fn откатывают её, ошибка fn возвращается без обёртки.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	err := pgx.BeginFunc(ctx, m.db, fn)
	if err != nil {
		m.logger.Debug("Транзакция не зафиксирована", zap.Error(err))
	}
	return err
}
