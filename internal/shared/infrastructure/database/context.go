package database

import (
	"context"
	"sync"
)

type txKey struct{}

// TxInfo is the transaction carried by a context. Owned is false when the
// context joined a transaction started further up the call chain.
type TxInfo struct {
	Tx    Transaction
	Owned bool

	hooks *commitHooks
}

// commitHooks is shared by every context joined to one transaction.
type commitHooks struct {
	mu  sync.Mutex
	fns []func(context.Context)
}

func (h *commitHooks) add(fn func(context.Context)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fns = append(h.fns, fn)
}

func (h *commitHooks) drain() []func(context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fns := h.fns
	h.fns = nil
	return fns
}

// WithTx returns a context carrying tx. A context joining the transaction
// already in ctx shares its after-commit hooks.
func WithTx(ctx context.Context, tx Transaction, owned bool) context.Context {
	info := TxInfo{Tx: tx, Owned: owned, hooks: &commitHooks{}}
	if parent, ok := TxInfoFromContext(ctx); ok && parent.Tx == tx && parent.hooks != nil {
		info.hooks = parent.hooks
	}
	return context.WithValue(ctx, txKey{}, info)
}

// withoutTx hides any carried transaction from ctx.
func withoutTx(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey{}, TxInfo{})
}

// TxFromContext returns the carried transaction, or nil.
func TxFromContext(ctx context.Context) Transaction {
	info, ok := ctx.Value(txKey{}).(TxInfo)
	if !ok || info.Tx == nil {
		return nil
	}
	return info.Tx
}

// TxInfoFromContext returns the carried transaction info.
func TxInfoFromContext(ctx context.Context) (TxInfo, bool) {
	info, ok := ctx.Value(txKey{}).(TxInfo)
	if !ok || info.Tx == nil {
		return TxInfo{}, false
	}
	return info, true
}

// InTransaction reports whether ctx carries a transaction.
func InTransaction(ctx context.Context) bool {
	return TxFromContext(ctx) != nil
}

// AfterCommit runs fn once the transaction carried by ctx has committed. With
// no transaction in ctx, fn runs immediately. Hooks of a rolled back
// transaction are dropped.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	info, ok := TxInfoFromContext(ctx)
	if !ok || info.hooks == nil {
		fn(ctx)
		return
	}
	info.hooks.add(fn)
}

// ExecutorFromContext lets repositories run inside the caller's unit of work
// when there is one and directly on conn otherwise.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return conn
}
