package config

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Setenv("FLOW_MINT_ADMIN_ADDRESS", "0x1")
	t.Setenv("FLOW_MINT_COLLECTION_ADDRESS", "0x2")
	t.Setenv("FLOW_MINT_JWT_SECRET", "secret")

	cfg, err := ParseConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "SFNFT", cfg.CollectionSymbol)
	assert.Equal(t, uint64(4096), cfg.MaxTotalSupply)
	assert.Equal(t, uint64(1), cfg.WhitelistPerWallet)
	assert.Equal(t, 3000, cfg.Port)

	price, err := cfg.InitialPrice()
	require.NoError(t, err)
	assert.Equal(t, "20000000000000000", price.String())
}

func TestParseConfigRequired(t *testing.T) {
	t.Setenv("FLOW_MINT_ADMIN_ADDRESS", "0x1")
	t.Setenv("FLOW_MINT_COLLECTION_ADDRESS", "0x2")
	t.Setenv("FLOW_MINT_JWT_SECRET", "")

	_, err := ParseConfig(nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		AdminAddress:      "0x1",
		CollectionAddress: "0x2",
		MaxTotalSupply:    10,
		Price:             "1",
	}
	assert.NoError(t, valid.Validate())

	same := valid
	same.CollectionAddress = valid.AdminAddress
	assert.Error(t, same.Validate())

	noSupply := valid
	noSupply.MaxTotalSupply = 0
	assert.Error(t, noSupply.Validate())

	hugeSupply := valid
	hugeSupply.MaxTotalSupply = math.MaxInt64 + 1
	assert.Error(t, hugeSupply.Validate())

	hugeSupply.MaxTotalSupply = math.MaxInt64
	assert.NoError(t, hugeSupply.Validate())

	for _, p := range []string{"-1", "0.5", "ether"} {
		badPrice := valid
		badPrice.Price = p
		assert.Error(t, badPrice.Validate(), p)
	}
}
