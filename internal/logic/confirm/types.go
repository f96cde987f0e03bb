package confirm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrConfirmationFailed 链上明确返回了交易错误，不会重试
	ErrConfirmationFailed = errors.New("transaction confirmation failed")
	// ErrConfirmationIndeterminate 重试次数耗尽或被取消，结果未知（不等同于失败）
	ErrConfirmationIndeterminate = errors.New("transaction confirmation indeterminate")
)

// State 单次状态查询的结果
type State int

const (
	StateNotFound  State = iota // 尚未可见（或查询出错）
	StateSucceeded              // 已上链且无错误
	StateFailed                 // 已上链且带错误字段（即使为空）
)

func (s State) String() string {
	switch s {
	case StateNotFound:
		return "not_found"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// TxStatus 状态查询返回值
type TxStatus struct {
	State State
	Slot  uint64
	Err   any // 链上错误载荷，仅 StateFailed 时有意义
}

// StatusQuerier 交易状态查询能力，由调用方提供（通常是 RPC）
type StatusQuerier interface {
	QueryStatus(ctx context.Context, signature string) (TxStatus, error)
}

// StatusQuerierFunc 函数适配器
type StatusQuerierFunc func(ctx context.Context, signature string) (TxStatus, error)

func (f StatusQuerierFunc) QueryStatus(ctx context.Context, signature string) (TxStatus, error) {
	return f(ctx, signature)
}

// Outcome 轮询的终态
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeConfirmed
	OutcomeFailed
	OutcomeIndeterminate
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeFailed:
		return "failed"
	case OutcomeIndeterminate:
		return "indeterminate"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Attempt 一次查询的记录
type Attempt struct {
	Number int
	At     time.Time
	State  State
	Err    error // 查询本身的错误（被吞掉并计为一次尝试）
}

// Result 轮询结果
type Result struct {
	Signature    string
	Outcome      Outcome
	Attempts     []Attempt
	Slot         uint64
	ErrPayload   any   // OutcomeFailed 时的链上错误
	LastQueryErr error // 最后一次查询错误，便于区分"未上链"和"传输失败"
}

// FailedError 携带链上错误载荷，errors.Is(err, ErrConfirmationFailed) 为 true
type FailedError struct {
	Signature string
	Payload   any
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("%s: signature=%s err=%v", ErrConfirmationFailed, e.Signature, e.Payload)
}

func (e *FailedError) Is(target error) bool {
	return target == ErrConfirmationFailed
}
