package types

import (
	"strings"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokenProgramStr = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

func TestPubkeyFromBase58(t *testing.T) {
	p, err := TryPubkeyFromBase58(tokenProgramStr)
	require.NoError(t, err)
	assert.Equal(t, tokenProgramStr, p.String())
	assert.Equal(t, common.PublicKeyFromString(tokenProgramStr), p.ToCommon())
	assert.Equal(t, p, PubkeyFromCommon(p.ToCommon()))
	assert.Len(t, p.Bytes(), PubkeySize)
	assert.False(t, p.IsZero())

	_, err = TryPubkeyFromBase58("abc")
	assert.Error(t, err)
	_, err = TryPubkeyFromBase58("0OIl")
	assert.Error(t, err)

	assert.Panics(t, func() { PubkeyFromBase58("short") })
}

func TestPubkeyBytesIsCopy(t *testing.T) {
	p := PubkeyFromBase58(tokenProgramStr)
	b := p.Bytes()
	b[0] ^= 0xFF
	assert.Equal(t, tokenProgramStr, p.String())
}

func TestSignatureFromBase58(t *testing.T) {
	var raw Signature
	for i := range raw {
		raw[i] = byte(i + 1)
	}
	sig, err := SignatureFromBase58(raw.String())
	require.NoError(t, err)
	assert.True(t, sig.Equals(raw))

	_, err = SignatureFromBase58(tokenProgramStr)
	assert.Error(t, err)
	_, err = SignatureFromBase58(strings.Repeat("0", 10))
	assert.Error(t, err)
}
