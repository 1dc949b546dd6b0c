package repositories

import "context"

// TxFn runs inside a transaction; the ctx it receives carries the tx.
type TxFn func(ctx context.Context) error

// TransactionManager runs a function atomically. The in-memory store runs it
// under its write lock, Postgres inside a pgx transaction.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
