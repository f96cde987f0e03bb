package config

import (
	"errors"
	"fmt"
	"math/bits"
	"path/filepath"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/conf"

	"token-launcher-sol/internal/consts"
	"token-launcher-sol/internal/logic/confirm"
	"token-launcher-sol/internal/logic/txbuilder"
	"token-launcher-sol/pkg/logger"
)

type LogConfig struct {
	Format   string `json:"format,default=console"` // 日志格式，支持 "console" 或 "json"
	LogDir   string `json:"log_dir,optional"`       // 日志目录，为空时只输出到控制台
	Level    string `json:"level,default=info"`     // 日志级别：debug / info / warn / error
	Compress bool   `json:"compress,optional"`      // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// ConfirmConfig 交易确认轮询配置
type ConfirmConfig struct {
	MaxAttempts     int    `json:"max_attempts,default=20"`        // 最大查询次数
	RetryIntervalMs int    `json:"retry_interval_ms,default=3000"` // 两次查询间隔（毫秒）
	Commitment      string `json:"commitment,default=confirmed,options=confirmed|finalized"` // getTransaction 不支持 processed
}

func (c *ConfirmConfig) PollerOptions() []confirm.Option {
	return []confirm.Option{
		confirm.WithMaxAttempts(c.MaxAttempts),
		confirm.WithRetryInterval(time.Duration(c.RetryIntervalMs) * time.Millisecond),
	}
}

// ComputeBudgetConfig 计算预算（单价单位 micro-lamports）
type ComputeBudgetConfig struct {
	UnitLimit      uint32 `json:"unit_limit,default=200000"`
	UnitPrice      uint64 `json:"unit_price,default=500000"`
	CloseUnitLimit uint32 `json:"close_unit_limit,default=100000"`
	CloseUnitPrice uint64 `json:"close_unit_price,default=100000"`
}

func (c *ComputeBudgetConfig) Launch() txbuilder.ComputeBudget {
	return txbuilder.ComputeBudget{UnitLimit: c.UnitLimit, UnitPrice: c.UnitPrice}
}

func (c *ComputeBudgetConfig) Close() txbuilder.ComputeBudget {
	return txbuilder.ComputeBudget{UnitLimit: c.CloseUnitLimit, UnitPrice: c.CloseUnitPrice}
}

// ProgramsConfig 程序地址覆盖，留空沿用主网地址
type ProgramsConfig struct {
	TokenMetadata      string `json:"token_metadata,optional"`
	System             string `json:"system,optional"`
	SysvarInstructions string `json:"sysvar_instructions,optional"`
	Token              string `json:"token,optional"`
	Token2022          string `json:"token_2022,optional"`
	AssociatedToken    string `json:"associated_token,optional"`
	ComputeBudget      string `json:"compute_budget,optional"`
}

func (c *ProgramsConfig) ProgramSet() (consts.ProgramSet, error) {
	return consts.DefaultPrograms().WithOverrides(consts.ProgramOverrides{
		TokenMetadata:      c.TokenMetadata,
		System:             c.System,
		SysvarInstructions: c.SysvarInstructions,
		Token:              c.Token,
		Token2022:          c.Token2022,
		AssociatedToken:    c.AssociatedToken,
		ComputeBudget:      c.ComputeBudget,
	})
}

// RedisConfig 交易状态存储，Addr 为空时不启用
type RedisConfig struct {
	Addr     string `json:"addr,optional"`
	Password string `json:"password,optional"`
	DB       int    `json:"db,optional"`
	TTLHours int    `json:"ttl_hours,default=72"`
}

// KafkaProducerConfig 结果事件投递，Brokers 为空时不启用
type KafkaProducerConfig struct {
	Brokers       string `json:"brokers,optional"` // 多个用英文逗号分隔
	Topic         string `json:"topic,default=token-launch-outcome"`
	Partitions    int    `json:"partitions,default=3"`
	BatchSize     int    `json:"batch_size,default=32768"`
	LingerMs      int    `json:"linger_ms,default=5"`
	SendTimeoutMs int    `json:"send_timeout_ms,default=5000"` // 单条消息等待 ack 的超时
}

func (c *KafkaProducerConfig) Enabled() bool {
	return strings.TrimSpace(c.Brokers) != ""
}

// LaunchConfig 主配置。顶层字段与 token.json 保持一致。
type LaunchConfig struct {
	RpcURL      string `json:"rpc_url"`
	PayerPriv   string `json:"payer_priv"`
	MintPriv    string `json:"mint_priv"`
	TokenSupply uint64 `json:"token_supply"`
	Decimal     int    `json:"decimal"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	URI         string `json:"uri"`

	LogConf       LogConfig           `json:"logger,optional"`
	ConfirmConf   ConfirmConfig       `json:"confirm,optional"`
	ComputeBudget ComputeBudgetConfig `json:"compute_budget,optional"`
	Programs      ProgramsConfig      `json:"programs,optional"`
	Redis         RedisConfig         `json:"redis,optional"`
	KafkaProducer KafkaProducerConfig `json:"kafka,optional"`
	ReceiptDir    string              `json:"receipt_dir,optional"` // 发行回执目录，为空时不写
}

// Load 按扩展名（.json / .yaml / .yml / .toml）加载并校验配置。
// 推荐 JSON；YAML 中 name / symbol 若形如 Y、YES、NO、ON 会被解析成布尔值，必须加引号
func Load(path string) (LaunchConfig, error) {
	var c LaunchConfig
	if err := conf.Load(path, &c); err != nil {
		if isYAML(path) {
			return c, fmt.Errorf("load config %s (YAML 字符串值形如 YES/NO/ON/Y 时需加引号): %w", path, err)
		}
		return c, fmt.Errorf("load config %s: %w", path, err)
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return c, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// ApplyDefaults 补齐整段缺省时未被填充的默认值
func (c *LaunchConfig) ApplyDefaults() {
	if c.LogConf.Format == "" {
		c.LogConf.Format = "console"
	}
	if c.LogConf.Level == "" {
		c.LogConf.Level = "info"
	}
	if c.ConfirmConf.MaxAttempts <= 0 {
		c.ConfirmConf.MaxAttempts = confirm.DefaultMaxAttempts
	}
	if c.ConfirmConf.RetryIntervalMs <= 0 {
		c.ConfirmConf.RetryIntervalMs = int(confirm.DefaultRetryInterval / time.Millisecond)
	}
	if c.ConfirmConf.Commitment == "" {
		c.ConfirmConf.Commitment = "confirmed"
	}
	if c.ComputeBudget.UnitLimit == 0 {
		c.ComputeBudget.UnitLimit = txbuilder.DefaultLaunchUnitLimit
	}
	if c.ComputeBudget.UnitPrice == 0 {
		c.ComputeBudget.UnitPrice = txbuilder.DefaultLaunchUnitPrice
	}
	if c.ComputeBudget.CloseUnitLimit == 0 {
		c.ComputeBudget.CloseUnitLimit = txbuilder.DefaultCloseUnitLimit
	}
	if c.ComputeBudget.CloseUnitPrice == 0 {
		c.ComputeBudget.CloseUnitPrice = txbuilder.DefaultCloseUnitPrice
	}
	if c.Redis.TTLHours <= 0 {
		c.Redis.TTLHours = 72
	}
	if c.KafkaProducer.Topic == "" {
		c.KafkaProducer.Topic = "token-launch-outcome"
	}
	if c.KafkaProducer.Partitions <= 0 {
		c.KafkaProducer.Partitions = 3
	}
	if c.KafkaProducer.BatchSize <= 0 {
		c.KafkaProducer.BatchSize = 32 * 1024
	}
	if c.KafkaProducer.LingerMs <= 0 {
		c.KafkaProducer.LingerMs = 5
	}
	if c.KafkaProducer.SendTimeoutMs <= 0 {
		c.KafkaProducer.SendTimeoutMs = 5000
	}
}

func (c *LaunchConfig) Validate() error {
	var errs []error
	required := []struct {
		key string
		val string
	}{
		{"rpc_url", c.RpcURL},
		{"payer_priv", c.PayerPriv},
		{"mint_priv", c.MintPriv},
		{"name", c.Name},
		{"symbol", c.Symbol},
		{"uri", c.URI},
	}
	for _, r := range required {
		if strings.TrimSpace(r.val) == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.key))
		}
	}
	if c.Decimal < 0 || c.Decimal > consts.MaxDecimals {
		errs = append(errs, fmt.Errorf("decimal must be within [0, %d], got %d", consts.MaxDecimals, c.Decimal))
	}
	if len(c.Name) > consts.MaxNameLength {
		errs = append(errs, fmt.Errorf("name longer than %d bytes", consts.MaxNameLength))
	}
	if len(c.Symbol) > consts.MaxSymbolLength {
		errs = append(errs, fmt.Errorf("symbol longer than %d bytes", consts.MaxSymbolLength))
	}
	if len(c.URI) > consts.MaxURILength {
		errs = append(errs, fmt.Errorf("uri longer than %d bytes", consts.MaxURILength))
	}
	if c.ConfirmConf.Commitment != "confirmed" && c.ConfirmConf.Commitment != "finalized" {
		errs = append(errs, fmt.Errorf("confirm.commitment must be confirmed or finalized, got %q", c.ConfirmConf.Commitment))
	}
	if _, err := c.Programs.ProgramSet(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SupplyMinorUnits token_supply × 10^decimal，溢出 u64 时报错
func (c *LaunchConfig) SupplyMinorUnits() (uint64, error) {
	return ScaleAmount(c.TokenSupply, c.Decimal)
}

func ScaleAmount(amount uint64, decimals int) (uint64, error) {
	if decimals < 0 {
		return 0, fmt.Errorf("negative decimals %d", decimals)
	}
	out := amount
	for i := 0; i < decimals; i++ {
		hi, lo := bits.Mul64(out, 10)
		if hi != 0 {
			return 0, fmt.Errorf("supply %d with %d decimals overflows u64", amount, decimals)
		}
		out = lo
	}
	return out, nil
}
