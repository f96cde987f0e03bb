package mq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"token-launcher-sol/internal/types"
	"token-launcher-sol/internal/utils"
	"token-launcher-sol/pkg/logger"
)

// OutcomeEvent 一笔交易的确认结果
type OutcomeEvent struct {
	EventType uint32 // utils.EventType*
	Signature string
	Outcome   string
	Slot      uint64
	Attempts  int
	Mint      string
	Error     string
	Timestamp int64 // Unix 秒
}

func (e OutcomeEvent) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"signature": e.Signature,
		"outcome":   e.Outcome,
		"slot":      float64(e.Slot),
		"attempts":  float64(e.Attempts),
		"mint":      e.Mint,
		"error":     e.Error,
		"timestamp": float64(e.Timestamp),
	})
}

// OutcomePublisher 将确认结果投递到 Kafka，按签名哈希选分区
type OutcomePublisher struct {
	producer   Producer
	topic      string
	partitions uint32
	timeout    time.Duration
}

func NewOutcomePublisher(producer Producer, topic string, partitions int, timeout time.Duration) *OutcomePublisher {
	if partitions <= 0 {
		partitions = 1
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &OutcomePublisher{producer: producer, topic: topic, partitions: uint32(partitions), timeout: timeout}
}

// BuildJob 编码事件并计算分区
func (p *OutcomePublisher) BuildJob(e OutcomeEvent) (*KafkaJob, error) {
	if e.Timestamp == 0 {
		e.Timestamp = time.Now().Unix()
	}
	payload, err := e.toStruct()
	if err != nil {
		return nil, fmt.Errorf("build outcome payload: %w", err)
	}
	value, err := utils.EncodeEvent(e.EventType, payload)
	if err != nil {
		return nil, err
	}

	var partition uint32
	if sig, err := types.SignatureFromBase58(e.Signature); err == nil {
		partition = utils.PartitionHashBytes(sig[:], p.partitions)
	}
	return &KafkaJob{
		Topic:     p.topic,
		Partition: int32(partition),
		Key:       []byte(e.Signature),
		Value:     value,
	}, nil
}

// Publish 发送并等待 ack
func (p *OutcomePublisher) Publish(ctx context.Context, e OutcomeEvent) error {
	job, err := p.BuildJob(e)
	if err != nil {
		return err
	}
	_, failed := SendKafkaJobs(ctx, p.producer, []*KafkaJob{job}, p.timeout)
	if len(failed) > 0 {
		logger.Warnf("[mq] 结果事件发送失败: sig=%s, topic=%s, err=%v", e.Signature, p.topic, failed[0].Err)
		errs := make([]error, 0, len(failed))
		for _, f := range failed {
			errs = append(errs, f.Err)
		}
		return fmt.Errorf("publish outcome %s: %w", e.Signature, errors.Join(errs...))
	}
	logger.Infof("[mq] 结果事件已发送: sig=%s, outcome=%s, partition=%d", e.Signature, e.Outcome, job.Partition)
	return nil
}
