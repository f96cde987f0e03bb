package metaplex

import "token-launcher-sol/internal/logic/layout"

// 合约源代码: https://github.com/metaplex-foundation/mpl-token-metadata
//
// Create 指令数据布局（discriminator=42, createV1Discriminator=0）：
//
//	[0]      discriminator             u8
//	[1]      createV1Discriminator     u8
//	         name / symbol / uri       string (u32 LE 长度 + UTF-8)
//	         sellerFeeBasisPoints      u16
//	         creators                  Option<Vec<{address [32], verified bool, share u8}>>
//	         primarySaleHappened       bool
//	         isMutable                 bool
//	         tokenStandard             u8
//	         collection                Option<{verified bool, key string}>
//	         uses                      Option<{useMethod string, remaining u16, total u16}>
//	         collectionDetails         Option<string>
//	         ruleSet                   Option<[32]>
//	         decimals                  Option<u8>
//	         printSupply               Option<u64>
var CreateV1Layout = layout.Struct(
	layout.F("discriminator", layout.U8()),
	layout.F("createV1Discriminator", layout.U8()),
	layout.F("name", layout.String()),
	layout.F("symbol", layout.String()),
	layout.F("uri", layout.String()),
	layout.F("sellerFeeBasisPoints", layout.U16()),
	layout.F("creators", layout.Option(layout.Vec(CreatorLayout))),
	layout.F("primarySaleHappened", layout.Bool()),
	layout.F("isMutable", layout.Bool()),
	layout.F("tokenStandard", layout.U8()),
	layout.F("collection", layout.Option(layout.Struct(
		layout.F("verified", layout.Bool()),
		layout.F("key", layout.String()),
	))),
	layout.F("uses", layout.Option(layout.Struct(
		layout.F("useMethod", layout.String()),
		layout.F("remaining", layout.U16()),
		layout.F("total", layout.U16()),
	))),
	layout.F("collectionDetails", layout.Option(layout.String())),
	layout.F("ruleSet", layout.Option(layout.FixedBytes(32))),
	layout.F("decimals", layout.Option(layout.U8())),
	layout.F("printSupply", layout.Option(layout.U64())),
)

var CreatorLayout = layout.Struct(
	layout.F("address", layout.FixedBytes(32)),
	layout.F("verified", layout.Bool()),
	layout.F("share", layout.U8()),
)

// Mint 指令数据布局（discriminator=43）：
//
//	[0]     discriminator                 u8
//	[1]     mintArgs.type                 u8 (0 = V1)
//	[2:10]  mintArgs.data.amount          u64 LE
//	[10]    mintArgs.data.authorizationData  Option<{}>，固定不传
var MintLayout = layout.Struct(
	layout.F("discriminator", layout.U8()),
	layout.F("mintArgs", layout.Struct(
		layout.F("type", layout.U8()),
		layout.F("data", layout.Struct(
			layout.F("amount", layout.U64()),
			layout.F("authorizationData", layout.Option(layout.Struct())),
		)),
	)),
)
