package svc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-launcher-sol/internal/config"
	"token-launcher-sol/internal/consts"
)

func testConfig() config.LaunchConfig {
	c := config.LaunchConfig{
		RpcURL: "http://127.0.0.1:8899", PayerPriv: "p", MintPriv: "m",
		TokenSupply: 1, Decimal: 6, Name: "n", Symbol: "s", URI: "u",
	}
	c.ApplyDefaults()
	return c
}

func TestNewServiceContext_Minimal(t *testing.T) {
	ctx, err := NewServiceContext(testConfig())
	require.NoError(t, err)
	defer ctx.Close()

	assert.NotNil(t, ctx.RpcClient)
	assert.Equal(t, 20, ctx.Poller.MaxAttempts())
	assert.Nil(t, ctx.Redis)
	assert.Nil(t, ctx.Producer)
	assert.Nil(t, ctx.store())
	assert.Nil(t, ctx.publisher())
	assert.Equal(t, consts.DefaultPrograms(), ctx.Programs)

	assert.NotNil(t, ctx.LaunchService())
	assert.NotNil(t, ctx.BurnCloseService())
	assert.NotNil(t, ctx.ConfirmService())
}

func TestNewServiceContext_RedisAndOverrides(t *testing.T) {
	c := testConfig()
	c.Redis.Addr = "127.0.0.1:6379"
	c.Programs.Token = consts.TokenProgram2022Str

	ctx, err := NewServiceContext(c)
	require.NoError(t, err)
	defer ctx.Close()

	assert.NotNil(t, ctx.Redis)
	assert.NotNil(t, ctx.store())
	assert.Equal(t, consts.TokenProgram2022Str, ctx.Programs.Token.String())
}

func TestNewServiceContext_BadOverride(t *testing.T) {
	c := testConfig()
	c.Programs.System = "bad!"
	_, err := NewServiceContext(c)
	assert.Error(t, err)
}
