package consts

const (
	// MetadataSeed 元数据 PDA 的第一个 seed
	MetadataSeed = "metadata"

	// Metaplex 对元数据字段的长度限制（字节）
	MaxNameLength   = 32
	MaxSymbolLength = 10
	MaxURILength    = 200

	// MaxDecimals SPL mint 的最大精度
	MaxDecimals = 18
)
