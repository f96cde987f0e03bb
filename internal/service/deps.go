package service

import (
	"context"
	"fmt"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/rpc"
	sdktypes "github.com/blocto/solana-go-sdk/types"

	"token-launcher-sol/internal/logic/confirm"
	"token-launcher-sol/internal/logic/txstatus"
	"token-launcher-sol/internal/mq"
	"token-launcher-sol/pkg/logger"
)

// ChainClient *client.Client 中用到的 RPC 子集
type ChainClient interface {
	GetLatestBlockhash(ctx context.Context) (rpc.GetLatestBlockhashValue, error)
	SendTransactionWithConfig(ctx context.Context, tx sdktypes.Transaction, cfg client.SendTransactionConfig) (string, error)
	SimulateTransaction(ctx context.Context, tx sdktypes.Transaction) (client.SimulateTransaction, error)
	GetTokenAccountBalance(ctx context.Context, base58Addr string) (client.TokenAmount, error)
	GetAccountInfo(ctx context.Context, base58Addr string) (client.AccountInfo, error)
}

// Confirmer 交易确认轮询（*confirm.Poller）
type Confirmer interface {
	Poll(ctx context.Context, signature string) (confirm.Result, error)
}

// StatusStore 签名状态存储（*txstatus.RedisStatusStore），可为空
type StatusStore interface {
	Mark(ctx context.Context, rec txstatus.Record) error
	MarkPending(ctx context.Context, signature string, kind txstatus.Kind) error
	Get(ctx context.Context, signature string, kind txstatus.Kind) (txstatus.Record, error)
}

// OutcomePublisher 结果事件投递（*mq.OutcomePublisher），可为空
type OutcomePublisher interface {
	Publish(ctx context.Context, e mq.OutcomeEvent) error
}

const sinkTimeout = 5 * time.Second

// outcomeSink 把轮询结果写入 Redis 并投递到 Kafka，两者都是可选的，失败只记日志
type outcomeSink struct {
	store     StatusStore
	publisher OutcomePublisher
}

func (o outcomeSink) markPending(ctx context.Context, signature string, kind txstatus.Kind) {
	if o.store == nil {
		return
	}
	if err := o.store.MarkPending(ctx, signature, kind); err != nil {
		logger.Warnf("[Outcome] 写入 pending 状态失败: sig=%s, err=%v", signature, err)
	}
}

// previous 按 kinds 顺序读取已记录的状态，返回第一条已知记录；
// 均不存在、未启用存储或读取失败时返回最后一个 kind 的 StatusUnknown 记录
func (o outcomeSink) previous(ctx context.Context, signature string, kinds ...txstatus.Kind) txstatus.Record {
	rec := txstatus.Record{Signature: signature, Kind: txstatus.KindConfirm}
	if len(kinds) > 0 {
		rec.Kind = kinds[len(kinds)-1]
	}
	if o.store == nil {
		return rec
	}
	for _, kind := range kinds {
		got, err := o.store.Get(ctx, signature, kind)
		if err != nil {
			logger.Warnf("[Outcome] 读取已记录状态失败: sig=%s, kind=%s, err=%v", signature, kind, err)
			continue
		}
		if got.Status != txstatus.StatusUnknown {
			got.Kind = kind
			return got
		}
	}
	return rec
}

// record 轮询被取消时仍然落库，使用脱离取消的短超时 ctx
func (o outcomeSink) record(ctx context.Context, kind txstatus.Kind, eventType uint32, mint string, res confirm.Result, pollErr error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
	defer cancel()

	if o.store != nil {
		rec := txstatus.Record{
			Signature: res.Signature,
			Kind:      kind,
			Status:    txstatus.FromOutcome(res.Outcome),
			Slot:      res.Slot,
			Attempts:  len(res.Attempts),
		}
		if err := o.store.Mark(ctx, rec); err != nil {
			logger.Warnf("[Outcome] 写入确认状态失败: sig=%s, err=%v", res.Signature, err)
		}
	}

	if o.publisher != nil {
		event := mq.OutcomeEvent{
			EventType: eventType,
			Signature: res.Signature,
			Outcome:   res.Outcome.String(),
			Slot:      res.Slot,
			Attempts:  len(res.Attempts),
			Mint:      mint,
			Error:     describeErr(res, pollErr),
		}
		if err := o.publisher.Publish(ctx, event); err != nil {
			logger.Warnf("[Outcome] 投递结果事件失败: sig=%s, err=%v", res.Signature, err)
		}
	}
}

func describeErr(res confirm.Result, pollErr error) string {
	switch {
	case res.ErrPayload != nil:
		return fmt.Sprintf("%v", res.ErrPayload)
	case pollErr != nil:
		return pollErr.Error()
	default:
		return ""
	}
}
