package confirm

import (
	"context"
	"fmt"
	"time"

	"token-launcher-sol/pkg/logger"
)

const (
	DefaultMaxAttempts   = 20
	DefaultRetryInterval = 3 * time.Second
)

// Sleeper 两次查询之间的等待，ctx 取消时应立即返回 ctx.Err()
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext 基于 timer 的非忙等实现
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Poller 顺序轮询交易状态直到 Confirmed / Failed / Indeterminate。
// 同一时刻只有一个查询在途，唯一的阻塞点是查询本身和两次查询之间的等待。
type Poller struct {
	querier       StatusQuerier
	maxAttempts   int
	retryInterval time.Duration
	sleep         Sleeper
	now           func() time.Time
	prefix        string
}

type Option func(*Poller)

func WithMaxAttempts(n int) Option {
	return func(p *Poller) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

func WithRetryInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d >= 0 {
			p.retryInterval = d
		}
	}
}

func WithSleeper(s Sleeper) Option {
	return func(p *Poller) {
		if s != nil {
			p.sleep = s
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Poller) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLogPrefix 日志前缀，便于区分 create / burn-close 等调用方
func WithLogPrefix(prefix string) Option {
	return func(p *Poller) {
		if prefix != "" {
			p.prefix = prefix
		}
	}
}

func NewPoller(querier StatusQuerier, opts ...Option) *Poller {
	p := &Poller{
		querier:       querier,
		maxAttempts:   DefaultMaxAttempts,
		retryInterval: DefaultRetryInterval,
		sleep:         SleepContext,
		now:           time.Now,
		prefix:        "[Confirm]",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Poller) MaxAttempts() int { return p.maxAttempts }
func (p *Poller) RetryInterval() time.Duration { return p.retryInterval }

// Poll 轮询 signature 的最终状态。
//
//   - Confirmed：返回 nil error
//   - Failed：返回 *FailedError（errors.Is ErrConfirmationFailed），不再重试
//   - 次数耗尽 / ctx 取消：返回 ErrConfirmationIndeterminate（取消时同时包装 ctx.Err()）
//
// 查询出错与"尚未上链"同样处理：记录日志、消耗一次尝试后继续。
func (p *Poller) Poll(ctx context.Context, signature string) (Result, error) {
	res := Result{Signature: signature, Outcome: OutcomePending}

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return p.cancelled(res, err)
		}

		status, qErr := p.querier.QueryStatus(ctx, signature)
		rec := Attempt{Number: attempt, At: p.now(), State: status.State, Err: qErr}
		if qErr != nil {
			rec.State = StateNotFound
			res.LastQueryErr = qErr
		}
		res.Attempts = append(res.Attempts, rec)

		switch rec.State {
		case StateSucceeded:
			res.Outcome = OutcomeConfirmed
			res.Slot = status.Slot
			logger.Infof("%s 交易已确认: sig=%s, attempt=%d, slot=%d", p.prefix, signature, attempt, status.Slot)
			return res, nil

		case StateFailed:
			res.Outcome = OutcomeFailed
			res.Slot = status.Slot
			res.ErrPayload = status.Err
			logger.Errorf("%s 交易执行失败: sig=%s, attempt=%d, err=%v", p.prefix, signature, attempt, status.Err)
			return res, &FailedError{Signature: signature, Payload: status.Err}
		}

		if qErr != nil {
			logger.Warnf("%s 查询失败，按未上链处理: sig=%s, attempt=%d/%d, err=%v", p.prefix, signature, attempt, p.maxAttempts, qErr)
		} else {
			logger.Infof("%s 等待确认: sig=%s, attempt=%d/%d", p.prefix, signature, attempt, p.maxAttempts)
		}

		if attempt == p.maxAttempts {
			break
		}
		if err := p.sleep(ctx, p.retryInterval); err != nil {
			return p.cancelled(res, err)
		}
	}

	// 最后一次查询因取消而失败时按取消返回
	if err := ctx.Err(); err != nil {
		return p.cancelled(res, err)
	}
	res.Outcome = OutcomeIndeterminate
	logger.Warnf("%s 重试次数耗尽，结果未知: sig=%s, attempts=%d", p.prefix, signature, len(res.Attempts))
	return res, fmt.Errorf("%w: signature=%s after %d attempts", ErrConfirmationIndeterminate, signature, len(res.Attempts))
}

func (p *Poller) cancelled(res Result, cause error) (Result, error) {
	res.Outcome = OutcomeIndeterminate
	logger.Warnf("%s 轮询被取消: sig=%s, attempts=%d, err=%v", p.prefix, res.Signature, len(res.Attempts), cause)
	return res, fmt.Errorf("%w: signature=%s: %w", ErrConfirmationIndeterminate, res.Signature, cause)
}
