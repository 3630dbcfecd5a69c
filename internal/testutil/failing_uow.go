package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/horizon/internal/db"
)

// FailOnNthExecUoW injects Err on the FailOn-th ExecContext call of a
// transaction, so a senior assignment can be made to fail after its
// availability update but before the run insert commits.
//
// Calls are counted from 1 per transaction; reads are not counted, and
// AssignSenior is a read (UPDATE ... RETURNING via QueryRowContext). InTx
// limits the failure to the InTx-th transaction opened through this UoW;
// zero fails every transaction.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	InTx   int32
	Err    error

	txs atomic.Int32
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	n := u.txs.Add(1)

	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	var conn db.DBTX = tx
	if u.InTx == 0 || u.InTx == n {
		conn = &failOnNthExec{DBTX: tx, failOn: u.FailOn, err: u.Err}
	}
	if fnErr := fn(ctx, conn); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

// Transactions reports how many transactions were opened.
func (u *FailOnNthExecUoW) Transactions() int {
	return int(u.txs.Load())
}

type failOnNthExec struct {
	db.DBTX
	count  atomic.Int32
	failOn int32
	err    error
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.count.Add(1) == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
