package database

import (
	"context"
	"errors"
)

// ErrNoTransaction is returned by Commit and Rollback outside Begin.
var ErrNoTransaction = errors.New("no transaction in context")

// GenericUnitOfWork implements application.UnitOfWork over any Connection.
// A Begin inside an existing transaction joins it and leaves commit or
// rollback to the outer owner. Hooks registered with AfterCommit run after
// the owning Commit succeeds.
type GenericUnitOfWork struct {
	conn Connection
}

// NewUnitOfWork creates a new GenericUnitOfWork.
func NewUnitOfWork(conn Connection) *GenericUnitOfWork {
	return &GenericUnitOfWork{conn: conn}
}

func (u *GenericUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if info, ok := TxInfoFromContext(ctx); ok {
		return WithTx(ctx, info.Tx, false), nil
	}

	tx, err := u.conn.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return WithTx(ctx, tx, true), nil
}

func (u *GenericUnitOfWork) Commit(ctx context.Context) error {
	info, ok := TxInfoFromContext(ctx)
	if !ok {
		return ErrNoTransaction
	}
	if !info.Owned {
		return nil
	}
	if err := info.Tx.Commit(ctx); err != nil {
		if info.hooks != nil {
			info.hooks.drain()
		}
		return err
	}
	if info.hooks != nil {
		hookCtx := withoutTx(ctx)
		for _, fn := range info.hooks.drain() {
			fn(hookCtx)
		}
	}
	return nil
}

func (u *GenericUnitOfWork) Rollback(ctx context.Context) error {
	info, ok := TxInfoFromContext(ctx)
	if !ok {
		return ErrNoTransaction
	}
	if !info.Owned {
		return nil
	}
	if info.hooks != nil {
		info.hooks.drain()
	}
	return info.Tx.Rollback(ctx)
}

// InTx runs fn with a transactional executor. It reuses a transaction already
// carried by ctx, otherwise it opens one and commits when fn succeeds.
func InTx(ctx context.Context, conn Connection, fn func(ctx context.Context, exec Executor) error) error {
	uow := NewUnitOfWork(conn)
	txCtx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(txCtx, TxFromContext(txCtx)); err != nil {
		_ = uow.Rollback(txCtx)
		return err
	}
	return uow.Commit(txCtx)
}
