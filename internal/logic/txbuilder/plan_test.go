package txbuilder

import (
	"encoding/binary"
	"testing"

	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-launcher-sol/internal/consts"
	"token-launcher-sol/internal/logic/metaplex"
	"token-launcher-sol/internal/types"
)

func newKey() types.Pubkey {
	return types.PubkeyFromCommon(sdktypes.NewAccount().PublicKey)
}

func TestLaunchPlan(t *testing.T) {
	programs := consts.DefaultPrograms()
	payer := newKey()
	mint := newKey()

	ixs, err := LaunchPlan(LaunchParams{
		Programs: programs,
		Args:     metaplex.DefaultCreateV1Args("Test", "TST", "https://example.com/t.json", payer, 6),
		Payer:    payer,
		Mint:     mint,
		Amount:   1_000_000_000,
	})
	require.NoError(t, err)
	require.Len(t, ixs, 6)

	// 计算预算默认值
	assert.Equal(t, programs.ComputeBudget.ToCommon(), ixs[0].ProgramID)
	require.Len(t, ixs[0].Data, 5)
	assert.Equal(t, byte(2), ixs[0].Data[0])
	assert.Equal(t, DefaultLaunchUnitLimit, binary.LittleEndian.Uint32(ixs[0].Data[1:]))

	assert.Equal(t, programs.ComputeBudget.ToCommon(), ixs[1].ProgramID)
	require.Len(t, ixs[1].Data, 9)
	assert.Equal(t, byte(3), ixs[1].Data[0])
	assert.Equal(t, DefaultLaunchUnitPrice, binary.LittleEndian.Uint64(ixs[1].Data[1:]))

	assert.Equal(t, programs.TokenMetadata.ToCommon(), ixs[2].ProgramID)
	assert.Equal(t, metaplex.CreateDiscriminator, ixs[2].Data[0])
	assert.Equal(t, programs.TokenMetadata.ToCommon(), ixs[3].ProgramID)
	assert.Equal(t, metaplex.MintDiscriminator, ixs[3].Data[0])

	// 回收铸币权和冻结权
	for i, authType := range []byte{0, 1} {
		ix := ixs[4+i]
		assert.Equal(t, programs.Token.ToCommon(), ix.ProgramID)
		require.GreaterOrEqual(t, len(ix.Data), 3)
		assert.Equal(t, byte(6), ix.Data[0])
		assert.Equal(t, authType, ix.Data[1])
		assert.Equal(t, byte(0), ix.Data[2])
		require.Len(t, ix.Accounts, 2)
		assert.Equal(t, mint.ToCommon(), ix.Accounts[0].PubKey)
		assert.True(t, ix.Accounts[0].IsWritable)
		assert.Equal(t, payer.ToCommon(), ix.Accounts[1].PubKey)
		assert.True(t, ix.Accounts[1].IsSigner)
	}
}

func TestLaunchPlan_CustomBudget(t *testing.T) {
	payer := newKey()
	ixs, err := LaunchPlan(LaunchParams{
		Programs: consts.DefaultPrograms(),
		Args:     metaplex.DefaultCreateV1Args("A", "B", "C", payer, 9),
		Payer:    payer,
		Mint:     newKey(),
		Amount:   1,
		Budget:   ComputeBudget{UnitLimit: 123, UnitPrice: 456},
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(123), binary.LittleEndian.Uint32(ixs[0].Data[1:]))
	assert.Equal(t, uint64(456), binary.LittleEndian.Uint64(ixs[1].Data[1:]))
}

func TestLaunchPlan_EncodingError(t *testing.T) {
	payer := newKey()
	args := metaplex.DefaultCreateV1Args("A", "B", "C", payer, 6)
	args.Creators[0].Share = 300

	_, err := LaunchPlan(LaunchParams{Programs: consts.DefaultPrograms(), Args: args, Payer: payer, Mint: newKey()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creators[0].share")
}

func TestBurnClosePlan_WithBalance(t *testing.T) {
	programs := consts.DefaultPrograms()
	owner, account, mint := newKey(), newKey(), newKey()

	ixs, err := BurnClosePlan(BurnCloseParams{
		Programs:     programs,
		Owner:        owner,
		TokenAccount: account,
		Balance:      42,
		TokenProgram: programs.Token2022,
		Mint:         mint,
	})
	require.NoError(t, err)
	require.Len(t, ixs, 4)

	burn := ixs[0]
	assert.Equal(t, programs.Token2022.ToCommon(), burn.ProgramID)
	assert.Equal(t, byte(8), burn.Data[0])
	assert.Equal(t, uint64(42), binary.LittleEndian.Uint64(burn.Data[1:9]))
	require.Len(t, burn.Accounts, 3)
	assert.Equal(t, account.ToCommon(), burn.Accounts[0].PubKey)
	assert.Equal(t, mint.ToCommon(), burn.Accounts[1].PubKey)
	assert.Equal(t, owner.ToCommon(), burn.Accounts[2].PubKey)

	// 先设置单价再设置上限
	assert.Equal(t, byte(3), ixs[1].Data[0])
	assert.Equal(t, DefaultCloseUnitPrice, binary.LittleEndian.Uint64(ixs[1].Data[1:]))
	assert.Equal(t, byte(2), ixs[2].Data[0])
	assert.Equal(t, DefaultCloseUnitLimit, binary.LittleEndian.Uint32(ixs[2].Data[1:]))

	closeIx := ixs[3]
	assert.Equal(t, programs.Token2022.ToCommon(), closeIx.ProgramID)
	assert.Equal(t, []byte{9}, closeIx.Data)
	require.Len(t, closeIx.Accounts, 3)
	assert.Equal(t, account.ToCommon(), closeIx.Accounts[0].PubKey)
	assert.Equal(t, owner.ToCommon(), closeIx.Accounts[1].PubKey)
	assert.Equal(t, owner.ToCommon(), closeIx.Accounts[2].PubKey)
}

func TestBurnClosePlan_ZeroBalance(t *testing.T) {
	programs := consts.DefaultPrograms()
	ixs, err := BurnClosePlan(BurnCloseParams{
		Programs:     programs,
		Owner:        newKey(),
		TokenAccount: newKey(),
	})
	require.NoError(t, err)
	require.Len(t, ixs, 3)
	assert.Equal(t, programs.Token.ToCommon(), ixs[2].ProgramID)
	assert.Equal(t, []byte{9}, ixs[2].Data)
}

func TestBurnClosePlan_Invalid(t *testing.T) {
	programs := consts.DefaultPrograms()

	_, err := BurnClosePlan(BurnCloseParams{
		Programs: programs, Owner: newKey(), TokenAccount: newKey(),
		Balance: 1, TokenProgram: programs.Token,
	})
	assert.ErrorContains(t, err, "mint is required")

	_, err = BurnClosePlan(BurnCloseParams{
		Programs: programs, Owner: newKey(), TokenAccount: newKey(),
		Balance: 1, TokenProgram: programs.System, Mint: newKey(),
	})
	assert.ErrorContains(t, err, "unexpected program")
}
