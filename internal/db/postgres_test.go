package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emrekoc/registrar/internal/pkg/pgxtest"
)

type stubBeginner struct {
	tx  *pgxtest.Tx
	err error
}

func (b *stubBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestWithTxCommitsOnSuccess(t *testing.T) {
	tx := &pgxtest.Tx{}
	err := WithTx(context.Background(), &stubBeginner{tx: tx}, func(ctx context.Context, got pgx.Tx) error {
		_, execErr := got.Exec(ctx, "UPDATE departments SET budget = $1", 100)
		return execErr
	})
	require.NoError(t, err)
	assert.True(t, tx.Committed)
	assert.False(t, tx.RolledBack)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	tx := &pgxtest.Tx{}
	boom := errors.New("constraint violated")
	err := WithTx(context.Background(), &stubBeginner{tx: tx}, func(ctx context.Context, got pgx.Tx) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.True(t, tx.RolledBack)
	assert.False(t, tx.Committed)
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	tx := &pgxtest.Tx{}
	require.Panics(t, func() {
		_ = WithTx(context.Background(), &stubBeginner{tx: tx}, func(ctx context.Context, got pgx.Tx) error {
			panic("worker died")
		})
	})
	assert.True(t, tx.RolledBack)
	assert.False(t, tx.Committed)
}

func TestWithTxBeginFailure(t *testing.T) {
	boom := errors.New("pool exhausted")
	err := WithTx(context.Background(), &stubBeginner{err: boom}, func(ctx context.Context, got pgx.Tx) error {
		t.Fatal("transaction body must not run when begin fails")
		return nil
	})
	require.ErrorIs(t, err, boom)
}
