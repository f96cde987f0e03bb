package txbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-launcher-sol/internal/consts"
	"token-launcher-sol/internal/logic/metaplex"
)

func TestDescribePlan_Launch(t *testing.T) {
	programs := consts.DefaultPrograms()
	payer := newKey()
	ixs, err := LaunchPlan(LaunchParams{
		Programs: programs,
		Args:     metaplex.DefaultCreateV1Args("Test", "TST", "uri", payer, 6),
		Payer:    payer,
		Mint:     newKey(),
		Amount:   77,
	})
	require.NoError(t, err)

	assert.Equal(t, "ComputeBudget.SetComputeUnitLimit(200000)", DescribeInstruction(programs, ixs[0]))
	assert.Equal(t, "ComputeBudget.SetComputeUnitPrice(500000)", DescribeInstruction(programs, ixs[1]))
	assert.Equal(t, `Metaplex.CreateV1(name="Test", symbol="TST")`, DescribeInstruction(programs, ixs[2]))
	assert.Equal(t, "Metaplex.Mint(77)", DescribeInstruction(programs, ixs[3]))
	assert.Equal(t, "Token.SetAuthority(MintTokens -> none)", DescribeInstruction(programs, ixs[4]))
	assert.Equal(t, "Token.SetAuthority(FreezeAccount -> none)", DescribeInstruction(programs, ixs[5]))

	plan := DescribePlan(programs, ixs)
	assert.Contains(t, plan, "#0 ComputeBudget.SetComputeUnitLimit(200000); #1 ")
	assert.Contains(t, plan, "#5 Token.SetAuthority(FreezeAccount -> none)")
}

func TestDescribePlan_BurnClose(t *testing.T) {
	programs := consts.DefaultPrograms()
	ixs, err := BurnClosePlan(BurnCloseParams{
		Programs: programs, Owner: newKey(), TokenAccount: newKey(),
		Balance: 5, TokenProgram: programs.Token, Mint: newKey(),
	})
	require.NoError(t, err)

	assert.Equal(t, "Token.Burn(5)", DescribeInstruction(programs, ixs[0]))
	assert.Equal(t, "Token.CloseAccount", DescribeInstruction(programs, ixs[3]))
}
