package metaplex

import (
	"fmt"

	"token-launcher-sol/internal/logic/layout"
	"token-launcher-sol/internal/types"
)

const (
	CreateDiscriminator   uint8 = 42
	CreateV1Discriminator uint8 = 0
	MintDiscriminator     uint8 = 43
	MintArgsV1            uint8 = 0
)

// TokenStandard Metaplex 的 token 标准枚举（编码为 1 字节）
type TokenStandard uint8

const (
	TokenStandardNonFungible TokenStandard = iota
	TokenStandardFungibleAsset
	TokenStandardFungible
	TokenStandardNonFungibleEdition
	TokenStandardProgrammableNonFungible
	TokenStandardProgrammableNonFungibleEdition
)

// Creator 创作者条目。数值字段用 int 承接，越界在编码时报错而不是被截断。
type Creator struct {
	Address  []byte // 必须 32 字节
	Verified bool
	Share    int // 分成百分比，按 u8 编码
}

type Collection struct {
	Verified bool
	Key      string
}

type Uses struct {
	UseMethod string
	Remaining int
	Total     int
}

// CreateV1Args Create(V1) 指令参数。
// 切片/指针字段为 nil 表示对应 Option 不存在；Creators 为非 nil 空切片时编码为空 Vec。
type CreateV1Args struct {
	Discriminator         uint8
	CreateV1Discriminator uint8
	Name                  string
	Symbol                string
	URI                   string
	SellerFeeBasisPoints  int
	Creators              []Creator
	PrimarySaleHappened   bool
	IsMutable             bool
	TokenStandard         TokenStandard
	Collection            *Collection
	Uses                  *Uses
	CollectionDetails     *string
	RuleSet               []byte
	Decimals              *int
	PrintSupply           *uint64
}

// DefaultCreateV1Args 同质化 token 发行的默认参数：单一已验证创作者占 100%，
// 可变元数据，无版税，除 decimals 外其余可选字段均不设置
func DefaultCreateV1Args(name, symbol, uri string, creator types.Pubkey, decimals int) CreateV1Args {
	return CreateV1Args{
		Discriminator:         CreateDiscriminator,
		CreateV1Discriminator: CreateV1Discriminator,
		Name:                  name,
		Symbol:                symbol,
		URI:                   uri,
		SellerFeeBasisPoints:  0,
		Creators: []Creator{
			{Address: creator.Bytes(), Verified: true, Share: 100},
		},
		PrimarySaleHappened: false,
		IsMutable:           true,
		TokenStandard:       TokenStandardFungible,
		Decimals:            &decimals,
	}
}

func (a CreateV1Args) values() layout.Values {
	v := layout.Values{
		"discriminator":         a.Discriminator,
		"createV1Discriminator": a.CreateV1Discriminator,
		"name":                  a.Name,
		"symbol":                a.Symbol,
		"uri":                   a.URI,
		"sellerFeeBasisPoints":  a.SellerFeeBasisPoints,
		"primarySaleHappened":   a.PrimarySaleHappened,
		"isMutable":             a.IsMutable,
		"tokenStandard":         uint8(a.TokenStandard),
		"collectionDetails":     a.CollectionDetails,
		"ruleSet":               a.RuleSet,
		"decimals":              a.Decimals,
		"printSupply":           a.PrintSupply,
	}
	if a.Creators != nil {
		creators := make([]any, 0, len(a.Creators))
		for _, c := range a.Creators {
			creators = append(creators, layout.Values{
				"address":  c.Address,
				"verified": c.Verified,
				"share":    c.Share,
			})
		}
		v["creators"] = creators
	}
	if a.Collection != nil {
		v["collection"] = layout.Values{
			"verified": a.Collection.Verified,
			"key":      a.Collection.Key,
		}
	}
	if a.Uses != nil {
		v["uses"] = layout.Values{
			"useMethod": a.Uses.UseMethod,
			"remaining": a.Uses.Remaining,
			"total":     a.Uses.Total,
		}
	}
	return v
}

// EncodeCreateMetadata 编码 Create(V1) 指令数据，纯函数，可并发调用
func EncodeCreateMetadata(args CreateV1Args) ([]byte, error) {
	data, err := layout.Encode(CreateV1Layout, args.values())
	if err != nil {
		return nil, fmt.Errorf("encode CreateV1 args: %w", err)
	}
	return data, nil
}

// DecodeCreateV1 EncodeCreateMetadata 的逆过程
func DecodeCreateV1(data []byte) (args CreateV1Args, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decode CreateV1 args: unexpected value: %v", r)
		}
	}()

	raw, err := layout.Decode(CreateV1Layout, data)
	if err != nil {
		return CreateV1Args{}, fmt.Errorf("decode CreateV1 args: %w", err)
	}
	m := raw.(layout.Values)

	args = CreateV1Args{
		Discriminator:         m["discriminator"].(uint8),
		CreateV1Discriminator: m["createV1Discriminator"].(uint8),
		Name:                  m["name"].(string),
		Symbol:                m["symbol"].(string),
		URI:                   m["uri"].(string),
		SellerFeeBasisPoints:  int(m["sellerFeeBasisPoints"].(uint16)),
		PrimarySaleHappened:   m["primarySaleHappened"].(bool),
		IsMutable:             m["isMutable"].(bool),
		TokenStandard:         TokenStandard(m["tokenStandard"].(uint8)),
	}
	if list, ok := m["creators"].([]any); ok {
		args.Creators = make([]Creator, 0, len(list))
		for _, item := range list {
			c := item.(layout.Values)
			args.Creators = append(args.Creators, Creator{
				Address:  c["address"].([]byte),
				Verified: c["verified"].(bool),
				Share:    int(c["share"].(uint8)),
			})
		}
	}
	if c, ok := m["collection"].(layout.Values); ok {
		args.Collection = &Collection{Verified: c["verified"].(bool), Key: c["key"].(string)}
	}
	if u, ok := m["uses"].(layout.Values); ok {
		args.Uses = &Uses{
			UseMethod: u["useMethod"].(string),
			Remaining: int(u["remaining"].(uint16)),
			Total:     int(u["total"].(uint16)),
		}
	}
	if s, ok := m["collectionDetails"].(string); ok {
		args.CollectionDetails = &s
	}
	if rs, ok := m["ruleSet"].([]byte); ok {
		args.RuleSet = rs
	}
	if d, ok := m["decimals"].(uint8); ok {
		decimals := int(d)
		args.Decimals = &decimals
	}
	if p, ok := m["printSupply"].(uint64); ok {
		args.PrintSupply = &p
	}
	return args, nil
}

// MintArgs Mint 指令参数
type MintArgs struct {
	Discriminator uint8
	Type          uint8
	Amount        uint64 // 最小单位
}

func (a MintArgs) values() layout.Values {
	return layout.Values{
		"discriminator": a.Discriminator,
		"mintArgs": layout.Values{
			"type": a.Type,
			"data": layout.Values{
				"amount":            a.Amount,
				"authorizationData": nil,
			},
		},
	}
}

// EncodeMintArgs 编码 Mint(V1) 指令数据，authorizationData 固定不传
func EncodeMintArgs(discriminator uint8, amount uint64) ([]byte, error) {
	args := MintArgs{Discriminator: discriminator, Type: MintArgsV1, Amount: amount}
	data, err := layout.Encode(MintLayout, args.values())
	if err != nil {
		return nil, fmt.Errorf("encode Mint args: %w", err)
	}
	return data, nil
}

// DecodeMintArgs EncodeMintArgs 的逆过程；authorizationData 存在时报错
func DecodeMintArgs(data []byte) (MintArgs, error) {
	raw, err := layout.Decode(MintLayout, data)
	if err != nil {
		return MintArgs{}, fmt.Errorf("decode Mint args: %w", err)
	}
	m := raw.(layout.Values)
	mintArgs := m["mintArgs"].(layout.Values)
	payload := mintArgs["data"].(layout.Values)
	if payload["authorizationData"] != nil {
		return MintArgs{}, fmt.Errorf("decode Mint args: authorizationData is not supported")
	}
	return MintArgs{
		Discriminator: m["discriminator"].(uint8),
		Type:          mintArgs["type"].(uint8),
		Amount:        payload["amount"].(uint64),
	}, nil
}
