package svc

import (
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/redis/go-redis/v9"

	"token-launcher-sol/internal/config"
	"token-launcher-sol/internal/consts"
	"token-launcher-sol/internal/logic/confirm"
	"token-launcher-sol/internal/logic/txstatus"
	"token-launcher-sol/internal/mq"
	"token-launcher-sol/internal/service"
	"token-launcher-sol/pkg/logger"
)

// ServiceContext 命令执行所需的资源
type ServiceContext struct {
	Config      config.LaunchConfig
	Programs    consts.ProgramSet
	RpcClient   *client.Client
	Poller      *confirm.Poller
	Redis       *redis.Client // 未配置时为 nil
	StatusStore *txstatus.RedisStatusStore
	Producer    *kafka.Producer // 未配置时为 nil
	Publisher   *mq.OutcomePublisher
}

// NewServiceContext 创建服务上下文；Redis / Kafka 未配置时跳过
func NewServiceContext(c config.LaunchConfig) (*ServiceContext, error) {
	programs, err := c.Programs.ProgramSet()
	if err != nil {
		return nil, err
	}

	// 1. RPC 客户端与确认轮询
	rpcClient := client.NewClient(c.RpcURL)
	opts := append(c.ConfirmConf.PollerOptions(), confirm.WithLogPrefix("[Confirm]"))
	poller := confirm.NewPoller(confirm.NewRPCStatusQuerier(rpcClient, c.ConfirmConf.Commitment), opts...)

	ctx := &ServiceContext{
		Config:    c,
		Programs:  programs,
		RpcClient: rpcClient,
		Poller:    poller,
	}

	// 2. Redis（签名状态）
	if c.Redis.Addr != "" {
		ctx.Redis = redis.NewClient(&redis.Options{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})
		ctx.StatusStore = txstatus.NewRedisStatusStore(ctx.Redis, time.Duration(c.Redis.TTLHours)*time.Hour)
	}

	// 3. Kafka（结果事件）
	if c.KafkaProducer.Enabled() {
		producer, err := mq.NewKafkaProducer(mq.KafkaProducerOption{
			Brokers:    c.KafkaProducer.Brokers,
			BatchSize:  c.KafkaProducer.BatchSize,
			LingerMs:   c.KafkaProducer.LingerMs,
			Topic:      c.KafkaProducer.Topic,
			Partitions: c.KafkaProducer.Partitions,
		})
		if err != nil {
			logger.Errorf("[svc] Kafka producer 初始化失败: %v", err)
			ctx.Close()
			return nil, err
		}
		ctx.Producer = producer
		ctx.Publisher = mq.NewOutcomePublisher(producer, c.KafkaProducer.Topic, c.KafkaProducer.Partitions,
			time.Duration(c.KafkaProducer.SendTimeoutMs)*time.Millisecond)
	}

	logger.Infof("[svc] 服务上下文初始化完成: rpc=%s, redis=%t, kafka=%t", c.RpcURL, ctx.Redis != nil, ctx.Producer != nil)
	return ctx, nil
}

// 可选依赖为 nil 时需要返回 nil 接口，避免 typed-nil
func (ctx *ServiceContext) store() service.StatusStore {
	if ctx.StatusStore == nil {
		return nil
	}
	return ctx.StatusStore
}

func (ctx *ServiceContext) publisher() service.OutcomePublisher {
	if ctx.Publisher == nil {
		return nil
	}
	return ctx.Publisher
}

func (ctx *ServiceContext) LaunchService() *service.LaunchService {
	return service.NewLaunchService(ctx.Config, ctx.Programs, ctx.RpcClient, ctx.Poller, ctx.store(), ctx.publisher())
}

func (ctx *ServiceContext) BurnCloseService() *service.BurnCloseService {
	return service.NewBurnCloseService(ctx.Config, ctx.Programs, ctx.RpcClient, ctx.Poller, ctx.store(), ctx.publisher())
}

func (ctx *ServiceContext) ConfirmService() *service.ConfirmService {
	return service.NewConfirmService(ctx.Poller, ctx.store(), ctx.publisher())
}

// Close 关闭服务上下文中的资源
func (ctx *ServiceContext) Close() {
	if ctx.Producer != nil {
		ctx.Producer.Flush(3000)
		ctx.Producer.Close()
	}
	if ctx.Redis != nil {
		_ = ctx.Redis.Close()
	}
}
