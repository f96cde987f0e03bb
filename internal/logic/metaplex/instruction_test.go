package metaplex

import (
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-launcher-sol/internal/consts"
	"token-launcher-sol/internal/types"
)

func testMint() types.Pubkey {
	var p types.Pubkey
	for i := range p {
		p[i] = byte(200 - i)
	}
	return p
}

func TestFindMetadataPDA(t *testing.T) {
	programs := consts.DefaultPrograms()
	mint := testMint()

	pda, err := FindMetadataPDA(programs, mint)
	require.NoError(t, err)

	want, _, err := common.FindProgramAddress(
		[][]byte{[]byte("metadata"), programs.TokenMetadata.Bytes(), mint.Bytes()},
		common.PublicKeyFromString(consts.TokenMetaProgramIdStr),
	)
	require.NoError(t, err)
	assert.Equal(t, types.PubkeyFromCommon(want), pda)

	other, err := FindMetadataPDA(programs, testCreator())
	require.NoError(t, err)
	assert.NotEqual(t, pda, other)
}

func TestFindAssociatedTokenAddress_MatchesSDK(t *testing.T) {
	programs := consts.DefaultPrograms()
	owner, mint := testCreator(), testMint()

	got, err := FindAssociatedTokenAddress(programs, owner, mint)
	require.NoError(t, err)

	want, _, err := common.FindAssociatedTokenAddress(owner.ToCommon(), mint.ToCommon())
	require.NoError(t, err)
	assert.Equal(t, types.PubkeyFromCommon(want), got)
}

func TestBuildCreateV1Instruction(t *testing.T) {
	programs := consts.DefaultPrograms()
	creator, mint := testCreator(), testMint()
	args := DefaultCreateV1Args("Name", "SYM", "https://u", creator, 6)

	ix, err := BuildCreateV1Instruction(programs, args, mint, creator)
	require.NoError(t, err)

	assert.Equal(t, programs.TokenMetadata.ToCommon(), ix.ProgramID)
	require.Len(t, ix.Accounts, 9)

	pda, err := FindMetadataPDA(programs, mint)
	require.NoError(t, err)
	assert.Equal(t, pda.ToCommon(), ix.Accounts[0].PubKey)
	assert.True(t, ix.Accounts[0].IsWritable)
	assert.False(t, ix.Accounts[0].IsSigner)

	assert.Equal(t, mint.ToCommon(), ix.Accounts[2].PubKey)
	assert.True(t, ix.Accounts[2].IsSigner)
	for _, i := range []int{3, 4, 5} {
		assert.Equal(t, creator.ToCommon(), ix.Accounts[i].PubKey)
		assert.True(t, ix.Accounts[i].IsSigner)
	}
	assert.Equal(t, programs.System.ToCommon(), ix.Accounts[6].PubKey)
	assert.Equal(t, programs.SysvarInstructions.ToCommon(), ix.Accounts[7].PubKey)
	assert.Equal(t, programs.Token.ToCommon(), ix.Accounts[8].PubKey)

	data, err := EncodeCreateMetadata(args)
	require.NoError(t, err)
	assert.Equal(t, data, ix.Data)
}

func TestBuildCreateV1Instruction_EncodingError(t *testing.T) {
	args := DefaultCreateV1Args("N", "S", "U", testCreator(), 6)
	args.SellerFeeBasisPoints = 70000
	_, err := BuildCreateV1Instruction(consts.DefaultPrograms(), args, testMint(), testCreator())
	assert.Error(t, err)
}

func TestBuildMintInstruction(t *testing.T) {
	programs := consts.DefaultPrograms()
	creator, mint := testCreator(), testMint()

	ix, err := BuildMintInstruction(programs, creator, mint, 42)
	require.NoError(t, err)
	require.Len(t, ix.Accounts, 15)
	assert.Equal(t, programs.TokenMetadata.ToCommon(), ix.ProgramID)

	ata, err := FindAssociatedTokenAddress(programs, creator, mint)
	require.NoError(t, err)
	assert.Equal(t, ata.ToCommon(), ix.Accounts[0].PubKey)
	assert.Equal(t, mint.ToCommon(), ix.Accounts[5].PubKey)
	assert.Equal(t, programs.AssociatedToken.ToCommon(), ix.Accounts[12].PubKey)

	signers := 0
	for _, a := range ix.Accounts {
		if a.IsSigner {
			signers++
		}
	}
	assert.Equal(t, 4, signers)

	args, err := DecodeMintArgs(ix.Data)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), args.Amount)
}

func TestBuildInstruction_UsesInjectedPrograms(t *testing.T) {
	programs, err := consts.DefaultPrograms().WithOverrides(consts.ProgramOverrides{
		TokenMetadata: consts.TokenProgram2022Str,
	})
	require.NoError(t, err)

	ix, err := BuildMintInstruction(programs, testCreator(), testMint(), 1)
	require.NoError(t, err)
	assert.Equal(t, common.PublicKeyFromString(consts.TokenProgram2022Str), ix.ProgramID)
}
