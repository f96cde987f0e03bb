package consts

import (
	"fmt"

	"token-launcher-sol/internal/types"
)

// ProgramSet 一次发行用到的全部程序地址。
// 不做全局可变量，由 svc 构造后注入到各个 builder，便于切换网络与测试。
type ProgramSet struct {
	TokenMetadata      types.Pubkey
	System             types.Pubkey
	SysvarInstructions types.Pubkey
	Token              types.Pubkey
	Token2022          types.Pubkey
	AssociatedToken    types.Pubkey
	ComputeBudget      types.Pubkey
}

// ProgramOverrides 配置中的地址覆盖项，空字符串表示沿用默认值
type ProgramOverrides struct {
	TokenMetadata      string
	System             string
	SysvarInstructions string
	Token              string
	Token2022          string
	AssociatedToken    string
	ComputeBudget      string
}

// DefaultPrograms 主网（devnet 相同）程序地址
func DefaultPrograms() ProgramSet {
	return ProgramSet{
		TokenMetadata:      types.PubkeyFromBase58(TokenMetaProgramIdStr),
		System:             types.PubkeyFromBase58(SystemProgramStr),
		SysvarInstructions: types.PubkeyFromBase58(SysvarInstructionsStr),
		Token:              types.PubkeyFromBase58(TokenProgramStr),
		Token2022:          types.PubkeyFromBase58(TokenProgram2022Str),
		AssociatedToken:    types.PubkeyFromBase58(AssociatedTokenProgramStr),
		ComputeBudget:      types.PubkeyFromBase58(ComputeBudgetProgramIdStr),
	}
}

// WithOverrides 返回覆盖后的新 ProgramSet，原值不变
func (p ProgramSet) WithOverrides(o ProgramOverrides) (ProgramSet, error) {
	out := p
	fields := []struct {
		name string
		src  string
		dst  *types.Pubkey
	}{
		{"token_metadata", o.TokenMetadata, &out.TokenMetadata},
		{"system", o.System, &out.System},
		{"sysvar_instructions", o.SysvarInstructions, &out.SysvarInstructions},
		{"token", o.Token, &out.Token},
		{"token_2022", o.Token2022, &out.Token2022},
		{"associated_token", o.AssociatedToken, &out.AssociatedToken},
		{"compute_budget", o.ComputeBudget, &out.ComputeBudget},
	}
	for _, f := range fields {
		if f.src == "" {
			continue
		}
		pk, err := types.TryPubkeyFromBase58(f.src)
		if err != nil {
			return p, fmt.Errorf("program override %s: %w", f.name, err)
		}
		*f.dst = pk
	}
	return out, nil
}

// IsSPLTokenProgram 判断是否为 SPL Token / Token-2022 程序
func (p ProgramSet) IsSPLTokenProgram(programId types.Pubkey) bool {
	return programId == p.Token || programId == p.Token2022
}
