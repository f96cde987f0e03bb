package txbuilder

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/blocto/solana-go-sdk/program/compute_budget"
	sdktoken "github.com/blocto/solana-go-sdk/program/token"
	sdktypes "github.com/blocto/solana-go-sdk/types"

	"token-launcher-sol/internal/consts"
	"token-launcher-sol/internal/logic/metaplex"
	"token-launcher-sol/internal/types"
)

// DescribeInstruction 按程序和指令标签给出可读描述，用于发送前打印交易计划
func DescribeInstruction(programs consts.ProgramSet, ix sdktypes.Instruction) string {
	program := types.PubkeyFromCommon(ix.ProgramID)
	if len(ix.Data) == 0 {
		return fmt.Sprintf("%s(<empty>)", program)
	}

	switch {
	case program == programs.ComputeBudget:
		return describeComputeBudget(ix.Data)
	case programs.IsSPLTokenProgram(program):
		return describeToken(ix)
	case program == programs.TokenMetadata:
		return describeMetaplex(ix.Data)
	}
	return fmt.Sprintf("%s(tag=%d)", program, ix.Data[0])
}

// DescribePlan 逐条描述，带序号
func DescribePlan(programs consts.ProgramSet, ixs []sdktypes.Instruction) string {
	var b strings.Builder
	for i, ix := range ixs {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "#%d %s", i, DescribeInstruction(programs, ix))
	}
	return b.String()
}

func describeComputeBudget(data []byte) string {
	switch compute_budget.Instruction(data[0]) {
	case compute_budget.InstructionSetComputeUnitLimit:
		if len(data) >= 5 {
			return fmt.Sprintf("ComputeBudget.SetComputeUnitLimit(%d)", binary.LittleEndian.Uint32(data[1:5]))
		}
	case compute_budget.InstructionSetComputeUnitPrice:
		if len(data) >= 9 {
			return fmt.Sprintf("ComputeBudget.SetComputeUnitPrice(%d)", binary.LittleEndian.Uint64(data[1:9]))
		}
	}
	return fmt.Sprintf("ComputeBudget(tag=%d)", data[0])
}

func describeToken(ix sdktypes.Instruction) string {
	data := ix.Data
	switch sdktoken.Instruction(data[0]) {
	case sdktoken.InstructionBurn:
		if len(data) >= 9 {
			return fmt.Sprintf("Token.Burn(%d)", binary.LittleEndian.Uint64(data[1:9]))
		}
	case sdktoken.InstructionCloseAccount:
		return "Token.CloseAccount"
	case sdktoken.InstructionSetAuthority:
		if len(data) >= 3 {
			authority := "none"
			if data[2] == 1 {
				authority = "set"
			}
			return fmt.Sprintf("Token.SetAuthority(%s -> %s)", authorityName(data[1]), authority)
		}
	}
	return fmt.Sprintf("Token(tag=%d)", data[0])
}

func authorityName(t byte) string {
	switch sdktoken.AuthorityType(t) {
	case sdktoken.AuthorityTypeMintTokens:
		return "MintTokens"
	case sdktoken.AuthorityTypeFreezeAccount:
		return "FreezeAccount"
	case sdktoken.AuthorityTypeAccountOwner:
		return "AccountOwner"
	case sdktoken.AuthorityTypeCloseAccount:
		return "CloseAccount"
	default:
		return fmt.Sprintf("authority(%d)", t)
	}
}

func describeMetaplex(data []byte) string {
	switch data[0] {
	case metaplex.CreateDiscriminator:
		if args, err := metaplex.DecodeCreateV1(data); err == nil {
			return fmt.Sprintf("Metaplex.CreateV1(name=%q, symbol=%q)", args.Name, args.Symbol)
		}
	case metaplex.MintDiscriminator:
		if args, err := metaplex.DecodeMintArgs(data); err == nil {
			return fmt.Sprintf("Metaplex.Mint(%d)", args.Amount)
		}
	}
	return fmt.Sprintf("Metaplex(tag=%d)", data[0])
}
