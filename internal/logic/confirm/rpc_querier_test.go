package confirm

import (
	"context"
	"errors"
	"testing"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	tx      *client.Transaction
	err     error
	lastCfg client.GetTransactionConfig
}

func (f *fakeGetter) GetTransactionWithConfig(_ context.Context, _ string, cfg client.GetTransactionConfig) (*client.Transaction, error) {
	f.lastCfg = cfg
	return f.tx, f.err
}

func TestRPCStatusQuerier(t *testing.T) {
	ctx := context.Background()

	t.Run("nil transaction", func(t *testing.T) {
		g := &fakeGetter{}
		st, err := NewRPCStatusQuerier(g, "").QueryStatus(ctx, testSig)
		require.NoError(t, err)
		assert.Equal(t, StateNotFound, st.State)
		assert.Equal(t, rpc.CommitmentConfirmed, g.lastCfg.Commitment)
	})

	t.Run("processed falls back to confirmed", func(t *testing.T) {
		g := &fakeGetter{}
		_, err := NewRPCStatusQuerier(g, "processed").QueryStatus(ctx, testSig)
		require.NoError(t, err)
		assert.Equal(t, rpc.CommitmentConfirmed, g.lastCfg.Commitment)
	})

	t.Run("nil meta", func(t *testing.T) {
		g := &fakeGetter{tx: &client.Transaction{Slot: 5}}
		st, err := NewRPCStatusQuerier(g, "confirmed").QueryStatus(ctx, testSig)
		require.NoError(t, err)
		assert.Equal(t, StateNotFound, st.State)
	})

	t.Run("succeeded", func(t *testing.T) {
		g := &fakeGetter{tx: &client.Transaction{Slot: 11, Meta: &client.TransactionMeta{}}}
		st, err := NewRPCStatusQuerier(g, "finalized").QueryStatus(ctx, testSig)
		require.NoError(t, err)
		assert.Equal(t, StateSucceeded, st.State)
		assert.Equal(t, uint64(11), st.Slot)
		assert.Equal(t, rpc.CommitmentFinalized, g.lastCfg.Commitment)
	})

	t.Run("empty error payload", func(t *testing.T) {
		g := &fakeGetter{tx: &client.Transaction{Slot: 12, Meta: &client.TransactionMeta{Err: map[string]any{}}}}
		st, err := NewRPCStatusQuerier(g, "").QueryStatus(ctx, testSig)
		require.NoError(t, err)
		assert.Equal(t, StateFailed, st.State)
		assert.Equal(t, map[string]any{}, st.Err)
	})

	t.Run("transport error", func(t *testing.T) {
		boom := errors.New("timeout")
		g := &fakeGetter{err: boom}
		st, err := NewRPCStatusQuerier(g, "").QueryStatus(ctx, testSig)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, StateNotFound, st.State)
	})
}
