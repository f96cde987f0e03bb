package metaplex

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	sdktypes "github.com/blocto/solana-go-sdk/types"

	"token-launcher-sol/internal/consts"
	"token-launcher-sol/internal/types"
)

// FindMetadataPDA 元数据账户地址：seeds = ["metadata", metadataProgram, mint]
func FindMetadataPDA(programs consts.ProgramSet, mint types.Pubkey) (types.Pubkey, error) {
	pda, _, err := common.FindProgramAddress(
		[][]byte{[]byte(consts.MetadataSeed), programs.TokenMetadata.Bytes(), mint.Bytes()},
		programs.TokenMetadata.ToCommon(),
	)
	if err != nil {
		return types.Pubkey{}, fmt.Errorf("find metadata pda for mint %s: %w", mint, err)
	}
	return types.PubkeyFromCommon(pda), nil
}

// FindAssociatedTokenAddress 关联 token 账户地址：seeds = [owner, tokenProgram, mint]
func FindAssociatedTokenAddress(programs consts.ProgramSet, owner, mint types.Pubkey) (types.Pubkey, error) {
	ata, _, err := common.FindProgramAddress(
		[][]byte{owner.Bytes(), programs.Token.Bytes(), mint.Bytes()},
		programs.AssociatedToken.ToCommon(),
	)
	if err != nil {
		return types.Pubkey{}, fmt.Errorf("find associated token address owner=%s mint=%s: %w", owner, mint, err)
	}
	return types.PubkeyFromCommon(ata), nil
}

func accountMeta(pk types.Pubkey, isSigner, isWritable bool) sdktypes.AccountMeta {
	return sdktypes.AccountMeta{PubKey: pk.ToCommon(), IsSigner: isSigner, IsWritable: isWritable}
}

// BuildCreateV1Instruction 组装 Create(V1) 指令
//
// 账户布局：
//
// #0 - Metadata PDA（可写）
// #1 - Master Edition（同质化 token 不需要，传 Metadata 程序地址占位）
// #2 - Mint（签名、可写）
// #3 - Mint Authority（创作者，签名）
// #4 - Payer（创作者，签名、可写）
// #5 - Update Authority（创作者，签名）
// #6 - System Program
// #7 - Sysvar Instructions
// #8 - SPL Token Program
func BuildCreateV1Instruction(
	programs consts.ProgramSet,
	args CreateV1Args,
	mint types.Pubkey,
	creator types.Pubkey,
) (sdktypes.Instruction, error) {
	data, err := EncodeCreateMetadata(args)
	if err != nil {
		return sdktypes.Instruction{}, err
	}

	metadataPDA, err := FindMetadataPDA(programs, mint)
	if err != nil {
		return sdktypes.Instruction{}, err
	}

	return sdktypes.Instruction{
		ProgramID: programs.TokenMetadata.ToCommon(),
		Accounts: []sdktypes.AccountMeta{
			accountMeta(metadataPDA, false, true),
			accountMeta(programs.TokenMetadata, false, false),
			accountMeta(mint, true, true),
			accountMeta(creator, true, true),
			accountMeta(creator, true, true),
			accountMeta(creator, true, true),
			accountMeta(programs.System, false, false),
			accountMeta(programs.SysvarInstructions, false, false),
			accountMeta(programs.Token, false, false),
		},
		Data: data,
	}, nil
}

// BuildMintInstruction 组装 Mint(V1) 指令，向创作者的关联 token 账户铸造 amount（最小单位）
//
// 账户布局：
//
// #0  - Token 账户（创作者 ATA，可写）
// #1  - Token Owner（创作者）
// #2  - Metadata PDA
// #3  - Master Edition（占位）
// #4  - Token Record（占位）
// #5  - Mint（签名、可写）
// #6  - Authority（创作者，签名）
// #7  - Delegate Record（占位）
// #8  - Payer（创作者，签名、可写）
// #9  - System Program
// #10 - Sysvar Instructions
// #11 - SPL Token Program
// #12 - Associated Token Program
// #13 - Authorization Rules Program（占位）
// #14 - Authorization Rules（占位）
func BuildMintInstruction(
	programs consts.ProgramSet,
	creator types.Pubkey,
	mint types.Pubkey,
	amount uint64,
) (sdktypes.Instruction, error) {
	data, err := EncodeMintArgs(MintDiscriminator, amount)
	if err != nil {
		return sdktypes.Instruction{}, err
	}

	tokenAccount, err := FindAssociatedTokenAddress(programs, creator, mint)
	if err != nil {
		return sdktypes.Instruction{}, err
	}
	metadataPDA, err := FindMetadataPDA(programs, mint)
	if err != nil {
		return sdktypes.Instruction{}, err
	}

	placeholder := programs.TokenMetadata
	return sdktypes.Instruction{
		ProgramID: programs.TokenMetadata.ToCommon(),
		Accounts: []sdktypes.AccountMeta{
			accountMeta(tokenAccount, false, true),
			accountMeta(creator, true, true),
			accountMeta(metadataPDA, false, true),
			accountMeta(placeholder, false, false),
			accountMeta(placeholder, false, false),
			accountMeta(mint, true, true),
			accountMeta(creator, true, true),
			accountMeta(placeholder, false, false),
			accountMeta(creator, true, true),
			accountMeta(programs.System, false, false),
			accountMeta(programs.SysvarInstructions, false, false),
			accountMeta(programs.Token, false, false),
			accountMeta(programs.AssociatedToken, false, false),
			accountMeta(placeholder, false, false),
			accountMeta(placeholder, false, false),
		},
		Data: data,
	}, nil
}
