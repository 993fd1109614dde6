package repository

import "context"

// TxManager scopes a function to a single database transaction. The
// transaction is carried in the context; repository methods called with that
// context join it. fn returning nil commits, anything else rolls back — the
// transaction is never left open on any exit path.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
