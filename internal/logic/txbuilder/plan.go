package txbuilder

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/compute_budget"
	"github.com/blocto/solana-go-sdk/program/token"
	sdktypes "github.com/blocto/solana-go-sdk/types"

	"token-launcher-sol/internal/consts"
	"token-launcher-sol/internal/logic/metaplex"
	"token-launcher-sol/internal/types"
)

const (
	DefaultLaunchUnitLimit uint32 = 200_000
	DefaultLaunchUnitPrice uint64 = 500_000
	DefaultCloseUnitLimit  uint32 = 100_000
	DefaultCloseUnitPrice  uint64 = 100_000
)

// ComputeBudget 计算预算：单元上限 + 单价（micro-lamports）
type ComputeBudget struct {
	UnitLimit uint32
	UnitPrice uint64
}

// LaunchParams 一次发行所需的全部输入
type LaunchParams struct {
	Programs consts.ProgramSet
	Args     metaplex.CreateV1Args
	Payer    types.Pubkey // 同时是创作者、铸币权限和更新权限
	Mint     types.Pubkey
	Amount   uint64 // 最小单位
	Budget   ComputeBudget
}

// LaunchPlan 发行交易的指令序列：
//
//	SetComputeUnitLimit, SetComputeUnitPrice, CreateV1, Mint,
//	SetAuthority(MintTokens -> none), SetAuthority(FreezeAccount -> none)
func LaunchPlan(p LaunchParams) ([]sdktypes.Instruction, error) {
	budget := p.Budget
	if budget.UnitLimit == 0 {
		budget.UnitLimit = DefaultLaunchUnitLimit
	}
	if budget.UnitPrice == 0 {
		budget.UnitPrice = DefaultLaunchUnitPrice
	}

	createIx, err := metaplex.BuildCreateV1Instruction(p.Programs, p.Args, p.Mint, p.Payer)
	if err != nil {
		return nil, fmt.Errorf("build create instruction: %w", err)
	}
	mintIx, err := metaplex.BuildMintInstruction(p.Programs, p.Payer, p.Mint, p.Amount)
	if err != nil {
		return nil, fmt.Errorf("build mint instruction: %w", err)
	}

	ixs := []sdktypes.Instruction{
		unitLimitIx(p.Programs, budget.UnitLimit),
		unitPriceIx(p.Programs, budget.UnitPrice),
		createIx,
		mintIx,
		revokeAuthorityIx(p.Programs, p.Mint, p.Payer, token.AuthorityTypeMintTokens),
		revokeAuthorityIx(p.Programs, p.Mint, p.Payer, token.AuthorityTypeFreezeAccount),
	}
	return ixs, nil
}

// BurnCloseParams 销毁余额并关闭 token 账户
type BurnCloseParams struct {
	Programs     consts.ProgramSet
	Owner        types.Pubkey
	TokenAccount types.Pubkey
	Balance      uint64
	// 以下两项仅在 Balance > 0 时需要：token 账户的 owner 程序和 mint
	TokenProgram types.Pubkey
	Mint         types.Pubkey
	Budget       ComputeBudget
}

// BurnClosePlan 余额大于 0 时先 Burn 全部余额，然后设置计算预算，最后 CloseAccount 把租金退回 owner
func BurnClosePlan(p BurnCloseParams) ([]sdktypes.Instruction, error) {
	budget := p.Budget
	if budget.UnitLimit == 0 {
		budget.UnitLimit = DefaultCloseUnitLimit
	}
	if budget.UnitPrice == 0 {
		budget.UnitPrice = DefaultCloseUnitPrice
	}

	programID := p.Programs.Token
	ixs := make([]sdktypes.Instruction, 0, 4)
	if p.Balance > 0 {
		if p.Mint.IsZero() {
			return nil, fmt.Errorf("burn %d from %s: mint is required", p.Balance, p.TokenAccount)
		}
		if !p.Programs.IsSPLTokenProgram(p.TokenProgram) {
			return nil, fmt.Errorf("token account %s owned by unexpected program %s", p.TokenAccount, p.TokenProgram)
		}
		programID = p.TokenProgram

		burnIx := token.Burn(token.BurnParam{
			Account: p.TokenAccount.ToCommon(),
			Mint:    p.Mint.ToCommon(),
			Auth:    p.Owner.ToCommon(),
			Signers: []common.PublicKey{},
			Amount:  p.Balance,
		})
		burnIx.ProgramID = programID.ToCommon()
		ixs = append(ixs, burnIx)
	}

	closeIx := token.CloseAccount(token.CloseAccountParam{
		Account: p.TokenAccount.ToCommon(),
		Auth:    p.Owner.ToCommon(),
		Signers: []common.PublicKey{},
		To:      p.Owner.ToCommon(),
	})
	closeIx.ProgramID = programID.ToCommon()

	ixs = append(ixs,
		unitPriceIx(p.Programs, budget.UnitPrice),
		unitLimitIx(p.Programs, budget.UnitLimit),
		closeIx,
	)
	return ixs, nil
}

func unitLimitIx(programs consts.ProgramSet, units uint32) sdktypes.Instruction {
	ix := compute_budget.SetComputeUnitLimit(compute_budget.SetComputeUnitLimitParam{Units: units})
	ix.ProgramID = programs.ComputeBudget.ToCommon()
	return ix
}

func unitPriceIx(programs consts.ProgramSet, microLamports uint64) sdktypes.Instruction {
	ix := compute_budget.SetComputeUnitPrice(compute_budget.SetComputeUnitPriceParam{MicroLamports: microLamports})
	ix.ProgramID = programs.ComputeBudget.ToCommon()
	return ix
}

func revokeAuthorityIx(programs consts.ProgramSet, mint, current types.Pubkey, authType token.AuthorityType) sdktypes.Instruction {
	ix := token.SetAuthority(token.SetAuthorityParam{
		Account:  mint.ToCommon(),
		NewAuth:  nil,
		AuthType: authType,
		Auth:     current.ToCommon(),
		Signers:  []common.PublicKey{},
	})
	ix.ProgramID = programs.Token.ToCommon()
	return ix
}
