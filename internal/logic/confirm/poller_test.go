package confirm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSig = "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW"

// 按脚本依次返回结果，超出脚本后一直返回 NotFound
type scriptedQuerier struct {
	mu     sync.Mutex
	script []func() (TxStatus, error)
	calls  int
}

func (q *scriptedQuerier) QueryStatus(_ context.Context, _ string) (TxStatus, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	i := q.calls
	q.calls++
	if i < len(q.script) {
		return q.script[i]()
	}
	return TxStatus{State: StateNotFound}, nil
}

func (q *scriptedQuerier) Calls() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.calls
}

func notFound() (TxStatus, error) { return TxStatus{State: StateNotFound}, nil }

// 记录等待时长，不真正睡眠
type fakeSleeper struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (f *fakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	f.mu.Lock()
	f.waits = append(f.waits, d)
	f.mu.Unlock()
	return ctx.Err()
}

func (f *fakeSleeper) Total() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total time.Duration
	for _, w := range f.waits {
		total += w
	}
	return total
}

func (f *fakeSleeper) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.waits)
}

func TestNewPoller_Defaults(t *testing.T) {
	p := NewPoller(&scriptedQuerier{})
	assert.Equal(t, 20, p.MaxAttempts())
	assert.Equal(t, 3*time.Second, p.RetryInterval())

	p = NewPoller(&scriptedQuerier{}, WithMaxAttempts(0), WithRetryInterval(-1))
	assert.Equal(t, DefaultMaxAttempts, p.MaxAttempts())
	assert.Equal(t, DefaultRetryInterval, p.RetryInterval())
}

func TestPoll_ExhaustedIsIndeterminate(t *testing.T) {
	q := &scriptedQuerier{}
	s := &fakeSleeper{}
	p := NewPoller(q, WithSleeper(s.Sleep))

	res, err := p.Poll(context.Background(), testSig)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfirmationIndeterminate)
	assert.NotErrorIs(t, err, ErrConfirmationFailed)

	assert.Equal(t, OutcomeIndeterminate, res.Outcome)
	assert.Equal(t, 20, q.Calls())
	assert.Len(t, res.Attempts, 20)
	assert.Equal(t, 19, s.Count())
	assert.Equal(t, 19*3*time.Second, s.Total())

	for i, a := range res.Attempts {
		assert.Equal(t, i+1, a.Number)
		assert.Equal(t, StateNotFound, a.State)
	}
	assert.NoError(t, res.LastQueryErr)
}

func TestPoll_ConfirmedFirstAttempt(t *testing.T) {
	q := &scriptedQuerier{script: []func() (TxStatus, error){
		func() (TxStatus, error) { return TxStatus{State: StateSucceeded, Slot: 321}, nil },
	}}
	s := &fakeSleeper{}
	p := NewPoller(q, WithSleeper(s.Sleep))

	res, err := p.Poll(context.Background(), testSig)
	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmed, res.Outcome)
	assert.Equal(t, uint64(321), res.Slot)
	assert.Equal(t, 1, q.Calls())
	assert.Equal(t, 0, s.Count())
	require.Len(t, res.Attempts, 1)
	assert.Equal(t, 1, res.Attempts[0].Number)
}

func TestPoll_FailedStopsRetrying(t *testing.T) {
	payload := map[string]any{"InstructionError": []any{float64(2), "Custom"}}
	q := &scriptedQuerier{script: []func() (TxStatus, error){
		notFound,
		notFound,
		func() (TxStatus, error) { return TxStatus{State: StateFailed, Slot: 9, Err: payload}, nil },
	}}
	s := &fakeSleeper{}
	p := NewPoller(q, WithSleeper(s.Sleep), WithRetryInterval(time.Second))

	res, err := p.Poll(context.Background(), testSig)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfirmationFailed)
	assert.NotErrorIs(t, err, ErrConfirmationIndeterminate)

	var fe *FailedError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, payload, fe.Payload)
	assert.Equal(t, testSig, fe.Signature)

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, payload, res.ErrPayload)
	assert.Equal(t, 3, q.Calls())
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, 2*time.Second, s.Total())
}

func TestPoll_EmptyErrorPayloadIsFailure(t *testing.T) {
	q := &scriptedQuerier{script: []func() (TxStatus, error){
		func() (TxStatus, error) { return TxStatus{State: StateFailed, Err: map[string]any{}}, nil },
	}}
	p := NewPoller(q, WithSleeper((&fakeSleeper{}).Sleep))

	res, err := p.Poll(context.Background(), testSig)
	assert.ErrorIs(t, err, ErrConfirmationFailed)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, 1, q.Calls())
}

func TestPoll_QueryErrorsConsumeAttempts(t *testing.T) {
	boom := errors.New("connection reset")
	q := &scriptedQuerier{script: []func() (TxStatus, error){
		func() (TxStatus, error) { return TxStatus{}, boom },
		func() (TxStatus, error) { return TxStatus{State: StateSucceeded}, boom },
		func() (TxStatus, error) { return TxStatus{State: StateSucceeded, Slot: 7}, nil },
	}}
	s := &fakeSleeper{}
	p := NewPoller(q, WithSleeper(s.Sleep), WithMaxAttempts(5))

	res, err := p.Poll(context.Background(), testSig)
	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmed, res.Outcome)
	assert.Equal(t, 3, q.Calls())
	assert.Equal(t, 2, s.Count())

	// 出错的查询即使带了状态也按未上链处理
	require.Len(t, res.Attempts, 3)
	assert.Equal(t, StateNotFound, res.Attempts[0].State)
	assert.Equal(t, StateNotFound, res.Attempts[1].State)
	assert.ErrorIs(t, res.Attempts[1].Err, boom)
	assert.ErrorIs(t, res.LastQueryErr, boom)
}

func TestPoll_QueryErrorsUntilExhausted(t *testing.T) {
	boom := errors.New("rpc down")
	q := &scriptedQuerier{}
	for i := 0; i < 4; i++ {
		q.script = append(q.script, func() (TxStatus, error) { return TxStatus{}, boom })
	}
	p := NewPoller(q, WithSleeper((&fakeSleeper{}).Sleep), WithMaxAttempts(4))

	res, err := p.Poll(context.Background(), testSig)
	assert.ErrorIs(t, err, ErrConfirmationIndeterminate)
	assert.Equal(t, OutcomeIndeterminate, res.Outcome)
	assert.ErrorIs(t, res.LastQueryErr, boom)
	assert.Equal(t, 4, q.Calls())
}

func TestPoll_CancelledBeforeFirstQuery(t *testing.T) {
	q := &scriptedQuerier{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewPoller(q).Poll(ctx, testSig)
	assert.ErrorIs(t, err, ErrConfirmationIndeterminate)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, OutcomeIndeterminate, res.Outcome)
	assert.Equal(t, 0, q.Calls())
	assert.Empty(t, res.Attempts)
}

func TestPoll_CancelledDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := &scriptedQuerier{}
	sleeps := 0
	sleeper := func(ctx context.Context, d time.Duration) error {
		sleeps++
		if sleeps == 2 {
			cancel()
		}
		return ctx.Err()
	}

	res, err := NewPoller(q, WithSleeper(sleeper)).Poll(ctx, testSig)
	assert.ErrorIs(t, err, ErrConfirmationIndeterminate)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, OutcomeIndeterminate, res.Outcome)
	assert.Equal(t, 2, q.Calls())
	assert.Len(t, res.Attempts, 2)
}

func TestPoll_CancelledDuringLastQuery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := &scriptedQuerier{script: []func() (TxStatus, error){
		notFound,
		func() (TxStatus, error) {
			cancel()
			return TxStatus{}, context.Canceled
		},
	}}

	res, err := NewPoller(q, WithSleeper((&fakeSleeper{}).Sleep), WithMaxAttempts(2)).Poll(ctx, testSig)
	assert.ErrorIs(t, err, ErrConfirmationIndeterminate)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, OutcomeIndeterminate, res.Outcome)
	assert.Len(t, res.Attempts, 2)
	assert.ErrorIs(t, res.LastQueryErr, context.Canceled)
}

func TestPoll_RealSleeperHonorsDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	res, err := NewPoller(&scriptedQuerier{}, WithRetryInterval(time.Hour)).Poll(ctx, testSig)
	assert.ErrorIs(t, err, ErrConfirmationIndeterminate)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, OutcomeIndeterminate, res.Outcome)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestPoll_AttemptTimestampsUseClock(t *testing.T) {
	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	n := 0
	clock := func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	res, _ := NewPoller(&scriptedQuerier{}, WithMaxAttempts(3), WithClock(clock), WithSleeper((&fakeSleeper{}).Sleep)).
		Poll(context.Background(), testSig)
	require.Len(t, res.Attempts, 3)
	assert.Equal(t, base.Add(time.Second), res.Attempts[0].At)
	assert.Equal(t, base.Add(3*time.Second), res.Attempts[2].At)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, SleepContext(context.Background(), time.Millisecond))
	assert.NoError(t, SleepContext(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, SleepContext(ctx, time.Hour), context.Canceled)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "confirmed", OutcomeConfirmed.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
	assert.Equal(t, "indeterminate", OutcomeIndeterminate.String())
	assert.Equal(t, "not_found", StateNotFound.String())
}
