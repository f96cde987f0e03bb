package txstatus

import "token-launcher-sol/internal/logic/confirm"

// Status 交易签名的确认状态（Redis 中按整数存储）
type Status int

const (
	StatusUnknown       Status = 0 // Redis 不存在
	StatusPending       Status = 1 // 已发送，等待确认
	StatusConfirmed     Status = 2 // ✅ 已确认
	StatusFailed        Status = 3 // ❌ 链上执行失败
	StatusIndeterminate Status = 4 // 🕒 重试耗尽或被取消，结果未知
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConfirmed:
		return "confirmed"
	case StatusFailed:
		return "failed"
	case StatusIndeterminate:
		return "indeterminate"
	default:
		return "unknown"
	}
}

// FromOutcome 轮询终态映射为存储状态
func FromOutcome(o confirm.Outcome) Status {
	switch o {
	case confirm.OutcomeConfirmed:
		return StatusConfirmed
	case confirm.OutcomeFailed:
		return StatusFailed
	case confirm.OutcomeIndeterminate:
		return StatusIndeterminate
	default:
		return StatusPending
	}
}

// Kind 交易用途（用于区分 Redis key）
type Kind int

const (
	KindLaunch    Kind = 1
	KindBurnClose Kind = 2
	KindConfirm   Kind = 3 // 仅查询已有签名
)

func (k Kind) String() string {
	switch k {
	case KindLaunch:
		return "launch"
	case KindBurnClose:
		return "burn_close"
	case KindConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

// Record 一条签名状态记录
type Record struct {
	Signature string
	Kind      Kind
	Status    Status
	Slot      uint64
	Attempts  int
	UpdatedAt int64 // Unix 秒
}
