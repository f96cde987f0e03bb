package service

import (
	"context"

	"token-launcher-sol/internal/logic/confirm"
	"token-launcher-sol/internal/logic/txstatus"
	"token-launcher-sol/internal/types"
	"token-launcher-sol/internal/utils"
	"token-launcher-sol/pkg/logger"
)

// ConfirmService 轮询一个已发送交易的签名，并记录结果
type ConfirmService struct {
	poller Confirmer
	sink   outcomeSink
}

func NewConfirmService(poller Confirmer, store StatusStore, publisher OutcomePublisher) *ConfirmService {
	return &ConfirmService{poller: poller, sink: outcomeSink{store: store, publisher: publisher}}
}

func (s *ConfirmService) Run(ctx context.Context, signature string) (confirm.Result, error) {
	if _, err := types.SignatureFromBase58(signature); err != nil {
		return confirm.Result{Signature: signature}, err
	}
	// 发行 / 销毁关闭留下的记录优先，结果写回原 key
	prev := s.sink.previous(ctx, signature, txstatus.KindLaunch, txstatus.KindBurnClose, txstatus.KindConfirm)
	if prev.Status != txstatus.StatusUnknown {
		logger.Infof("[Confirm] 已有记录: sig=%s, kind=%s, status=%s, slot=%d，重新轮询", signature, prev.Kind, prev.Status, prev.Slot)
	}
	s.sink.markPending(ctx, signature, prev.Kind)
	res, err := s.poller.Poll(ctx, signature)
	s.sink.record(ctx, prev.Kind, utils.EventTypeConfirmOutcome, "", res, err)
	return res, err
}
