// Package tr связывает менеджер транзакций avito-tech с пулом pgx.
package tr

import (
	"context"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/avito-tech/go-transaction-manager/trm/v2/settings"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewManager создает менеджер транзакций поверх пула соединений.
func NewManager(pool *pgxpool.Pool) *manager.Manager {
	return manager.Must(trmpgx.NewDefaultFactory(pool))
}

// SnapshotSettings — настройки read-only транзакции уровня REPEATABLE READ.
// Все запросы внутри видят один и тот же снимок данных.
func SnapshotSettings() trm.Settings {
	return trmpgx.MustSettings(
		settings.Must(),
		trmpgx.WithTxOptions(pgx.TxOptions{
			IsoLevel:   pgx.RepeatableRead,
			AccessMode: pgx.ReadOnly,
		}),
	)
}

// TxFromCtx возвращает транзакцию из контекста, либо сам пул, если транзакции нет.
func TxFromCtx(ctx context.Context, pool *pgxpool.Pool) trmpgx.Tr {
	return trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, pool)
}
