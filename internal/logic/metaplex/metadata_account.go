package metaplex

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/near/borsh-go"

	"token-launcher-sol/internal/logic/layout"
	"token-launcher-sol/internal/types"
	"token-launcher-sol/pkg/logger"
)

const metadataAccountKeyV1 = 4 // Key::MetadataV1

// metadataHeader 元数据账户的定长前缀部分（borsh）
type metadataHeader struct {
	Key                  uint8
	UpdateAuthority      types.Pubkey
	Mint                 types.Pubkey
	Name                 string
	Symbol               string
	Uri                  string
	SellerFeeBasisPoints uint16
}

// metadataTail 紧随 header 的可选字段
var metadataTail = layout.Struct(
	layout.F("creators", layout.Option(layout.Vec(CreatorLayout))),
	layout.F("primarySaleHappened", layout.Bool()),
	layout.F("isMutable", layout.Bool()),
)

// MetadataAccount 链上元数据账户（只解析发行后校验所需的字段）
type MetadataAccount struct {
	UpdateAuthority      types.Pubkey
	Mint                 types.Pubkey
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	Creators             []Creator
	PrimarySaleHappened  bool
	IsMutable            bool
}

// ParseMetadataAccount 解析元数据账户数据；name/symbol/uri 去掉链上的 \x00 填充
func ParseMetadataAccount(data []byte) (acc *MetadataAccount, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[Metaplex:Metadata] panic: %v, stack=%s", r, debug.Stack())
			acc, err = nil, fmt.Errorf("parse metadata account: %v", r)
		}
	}()

	var header metadataHeader
	if err := borsh.Deserialize(&header, data); err != nil {
		return nil, fmt.Errorf("parse metadata header: %w", err)
	}
	if header.Key != metadataAccountKeyV1 {
		return nil, fmt.Errorf("parse metadata account: unexpected key %d", header.Key)
	}

	// 1 + 32 + 32 + 3 个字符串（各 4 字节长度前缀）+ 2
	offset := 1 + 32 + 32 + 4*3 + len(header.Name) + len(header.Symbol) + len(header.Uri) + 2
	if offset > len(data) {
		return nil, fmt.Errorf("parse metadata account: header overruns data (%d > %d)", offset, len(data))
	}
	raw, _, err := layout.DecodePrefix(metadataTail, data[offset:])
	if err != nil {
		return nil, fmt.Errorf("parse metadata tail: %w", err)
	}
	tail := raw.(layout.Values)

	acc = &MetadataAccount{
		UpdateAuthority:      header.UpdateAuthority,
		Mint:                 header.Mint,
		Name:                 trimPadding(header.Name),
		Symbol:               trimPadding(header.Symbol),
		URI:                  trimPadding(header.Uri),
		SellerFeeBasisPoints: header.SellerFeeBasisPoints,
		PrimarySaleHappened:  tail["primarySaleHappened"].(bool),
		IsMutable:            tail["isMutable"].(bool),
	}
	if list, ok := tail["creators"].([]any); ok {
		for _, item := range list {
			c := item.(layout.Values)
			acc.Creators = append(acc.Creators, Creator{
				Address:  c["address"].([]byte),
				Verified: c["verified"].(bool),
				Share:    int(c["share"].(uint8)),
			})
		}
	}
	return acc, nil
}

func trimPadding(s string) string {
	return strings.TrimRight(s, "\x00")
}

// Matches 校验链上元数据与发行参数是否一致
func (m *MetadataAccount) Matches(args CreateV1Args, mint types.Pubkey) error {
	switch {
	case m.Mint != mint:
		return fmt.Errorf("metadata mint mismatch: got=%s want=%s", m.Mint, mint)
	case m.Name != args.Name:
		return fmt.Errorf("metadata name mismatch: got=%q want=%q", m.Name, args.Name)
	case m.Symbol != args.Symbol:
		return fmt.Errorf("metadata symbol mismatch: got=%q want=%q", m.Symbol, args.Symbol)
	case m.URI != args.URI:
		return fmt.Errorf("metadata uri mismatch: got=%q want=%q", m.URI, args.URI)
	case int(m.SellerFeeBasisPoints) != args.SellerFeeBasisPoints:
		return fmt.Errorf("metadata fee mismatch: got=%d want=%d", m.SellerFeeBasisPoints, args.SellerFeeBasisPoints)
	}
	return nil
}
