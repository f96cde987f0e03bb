package confirm

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/rpc"
)

// TransactionGetter *client.Client 的子集
type TransactionGetter interface {
	GetTransactionWithConfig(ctx context.Context, txhash string, cfg client.GetTransactionConfig) (*client.Transaction, error)
}

// RPCStatusQuerier 通过 getTransaction 查询交易状态
type RPCStatusQuerier struct {
	rpc        TransactionGetter
	commitment rpc.Commitment
}

// NewRPCStatusQuerier commitment 只认 finalized，其余一律按 confirmed（getTransaction 不接受 processed）
func NewRPCStatusQuerier(getter TransactionGetter, commitment string) *RPCStatusQuerier {
	c := rpc.CommitmentConfirmed
	if commitment == "finalized" {
		c = rpc.CommitmentFinalized
	}
	return &RPCStatusQuerier{rpc: getter, commitment: c}
}

func (q *RPCStatusQuerier) QueryStatus(ctx context.Context, signature string) (TxStatus, error) {
	tx, err := q.rpc.GetTransactionWithConfig(ctx, signature, client.GetTransactionConfig{
		Commitment: q.commitment,
	})
	if err != nil {
		return TxStatus{State: StateNotFound}, fmt.Errorf("getTransaction %s: %w", signature, err)
	}
	// 交易或 meta 缺失都视为尚未可见
	if tx == nil || tx.Meta == nil {
		return TxStatus{State: StateNotFound}, nil
	}
	if tx.Meta.Err != nil {
		return TxStatus{State: StateFailed, Slot: tx.Slot, Err: tx.Meta.Err}, nil
	}
	return TxStatus{State: StateSucceeded, Slot: tx.Slot}, nil
}
