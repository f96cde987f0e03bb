package txstatus

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStatusStore 管理 Redis 中的签名确认状态
type RedisStatusStore struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

// Redis key 前缀
const (
	launchPrefix    = "txstatus:launch:sig"
	burnClosePrefix = "txstatus:burn_close:sig"
	confirmPrefix   = "txstatus:confirm:sig"
	unknownPrefix   = "txstatus:unknown:sig"
)

const defaultTTL = 72 * time.Hour

// hash 字段
const (
	fieldStatus    = "status"
	fieldSlot      = "slot"
	fieldAttempts  = "attempts"
	fieldUpdatedAt = "updated_at"
)

// NewRedisStatusStore ttl <= 0 时使用默认 72 小时
func NewRedisStatusStore(rdb *redis.Client, ttl time.Duration) *RedisStatusStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisStatusStore{rdb: rdb, ttl: ttl, now: time.Now}
}

// getKey 构造 Redis key，按交易用途区分
func (r *RedisStatusStore) getKey(signature string, kind Kind) string {
	var prefix string
	switch kind {
	case KindLaunch:
		prefix = launchPrefix
	case KindBurnClose:
		prefix = burnClosePrefix
	case KindConfirm:
		prefix = confirmPrefix
	default:
		prefix = unknownPrefix
	}
	return fmt.Sprintf("%s:%s", prefix, signature)
}

// Get 读取签名状态，不存在时返回 StatusUnknown
func (r *RedisStatusStore) Get(ctx context.Context, signature string, kind Kind) (Record, error) {
	rec := Record{Signature: signature, Kind: kind, Status: StatusUnknown}
	vals, err := r.rdb.HGetAll(ctx, r.getKey(signature, kind)).Result()
	switch {
	case err == redis.Nil:
		return rec, nil
	case err != nil:
		return rec, fmt.Errorf("redis hgetall error: %w", err)
	case len(vals) == 0:
		return rec, nil
	}
	return parseRecord(rec, vals), nil
}

func parseRecord(rec Record, vals map[string]string) Record {
	if v, err := strconv.Atoi(vals[fieldStatus]); err == nil && v >= int(StatusPending) && v <= int(StatusIndeterminate) {
		rec.Status = Status(v)
	}
	if v, err := strconv.ParseUint(vals[fieldSlot], 10, 64); err == nil {
		rec.Slot = v
	}
	if v, err := strconv.Atoi(vals[fieldAttempts]); err == nil {
		rec.Attempts = v
	}
	if v, err := strconv.ParseInt(vals[fieldUpdatedAt], 10, 64); err == nil {
		rec.UpdatedAt = v
	}
	return rec
}

// Mark 写入签名状态并刷新 TTL
func (r *RedisStatusStore) Mark(ctx context.Context, rec Record) error {
	key := r.getKey(rec.Signature, rec.Kind)
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, r.fields(rec))
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis mark %s error: %w", key, err)
	}
	return nil
}

func (r *RedisStatusStore) fields(rec Record) map[string]any {
	updatedAt := rec.UpdatedAt
	if updatedAt == 0 {
		updatedAt = r.now().Unix()
	}
	return map[string]any{
		fieldStatus:    int(rec.Status),
		fieldSlot:      rec.Slot,
		fieldAttempts:  rec.Attempts,
		fieldUpdatedAt: updatedAt,
	}
}

// MarkPending 标记签名为已发送、等待确认
func (r *RedisStatusStore) MarkPending(ctx context.Context, signature string, kind Kind) error {
	return r.Mark(ctx, Record{Signature: signature, Kind: kind, Status: StatusPending})
}
