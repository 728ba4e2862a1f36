package app

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/flow-hydraulics/flow-mint/service/common"
	"github.com/flow-hydraulics/flow-mint/service/config"
	mint_errors "github.com/flow-hydraulics/flow-mint/service/errors"
	"github.com/flow-hydraulics/flow-mint/service/flow_helpers"
	"github.com/onflow/cadence"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	owner      = common.FlowAddressFromString("0x1")
	second     = common.FlowAddressFromString("0x3")
	collection = common.FlowAddressFromString("0x2")
)

// wei converts an ether amount to its smallest unit.
func wei(ether string) decimal.Decimal {
	return decimal.RequireFromString(ether).Shift(18)
}

func getTestCfg(t *testing.T, maxSupply uint64) *config.Config {
	return &config.Config{
		AdminAddress:       owner.Hex(),
		CollectionAddress:  collection.Hex(),
		JWTSecret:          "secret",
		CollectionName:     "NFTN",
		CollectionSymbol:   "NFTS",
		MaxTotalSupply:     maxSupply,
		Price:              wei("0.02").String(),
		WhitelistPerWallet: 1,
		DatabaseType:       "sqlite",
		DatabaseDSN:        filepath.Join(t.TempDir(), "test.db"),
	}
}

func getTestApp(t *testing.T, cfg *config.Config) *App {
	db, err := common.NewGormDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { common.CloseGormDB(db) })

	logger := log.New()
	logger.SetLevel(log.WarnLevel)

	a, err := New(cfg, logger, db)
	require.NoError(t, err)
	return a
}

func TestConstructor(t *testing.T) {
	ctx := context.Background()
	a := getTestApp(t, getTestCfg(t, 4096))

	c, err := a.GetCollection(ctx)
	require.NoError(t, err)

	assert.Equal(t, uint64(4096), c.MaxTotalSupply)
	assert.False(t, c.SaleStarted)
	assert.True(t, c.Price.Equal(wei("0.02")))
	assert.Equal(t, uint64(1), c.WhitelistPerWallet)
	assert.Equal(t, "", c.BaseURI)
	assert.Equal(t, "NFTN", c.Name)
	assert.Equal(t, "NFTS", c.Symbol)
	assert.Equal(t, uint64(0), c.MintedSupply)
	assert.True(t, c.CustodyBalance.IsZero())
}

func TestConstructOnceKeepsSupply(t *testing.T) {
	ctx := context.Background()
	cfg := getTestCfg(t, 10)

	db, err := common.NewGormDB(cfg)
	require.NoError(t, err)
	defer common.CloseGormDB(db)

	a, err := New(cfg, nil, db)
	require.NoError(t, err)
	require.NoError(t, a.SetBaseURI(ctx, owner, "example.com"))

	cfg.MaxTotalSupply = 20
	b, err := New(cfg, nil, db)
	require.NoError(t, err)

	c, err := b.GetCollection(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), c.MaxTotalSupply)
	assert.Equal(t, "example.com", c.BaseURI)
}

func TestConstructorRejectsInvalidConfig(t *testing.T) {
	cfg := getTestCfg(t, math.MaxInt64+1)

	db, err := common.NewGormDB(cfg)
	require.NoError(t, err)
	defer common.CloseGormDB(db)

	_, err = New(cfg, nil, db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max total supply")

	_, err = GetCollection(db)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOwnerSetters(t *testing.T) {
	ctx := context.Background()
	a := getTestApp(t, getTestCfg(t, 4096))

	require.NoError(t, a.TriggerSale(ctx, owner, true))
	require.NoError(t, a.TriggerSale(ctx, owner, true))
	require.NoError(t, a.SetPrice(ctx, owner, wei("0.2")))
	require.NoError(t, a.SetWhitelistPerWallet(ctx, owner, 3))
	require.NoError(t, a.SetBaseURI(ctx, owner, "example.com"))

	c, err := a.GetCollection(ctx)
	require.NoError(t, err)
	assert.True(t, c.SaleStarted)
	assert.True(t, c.Price.Equal(wei("0.2")))
	assert.Equal(t, uint64(3), c.WhitelistPerWallet)
	assert.Equal(t, "example.com", c.BaseURI)

	assert.Error(t, a.SetPrice(ctx, owner, decimal.NewFromInt(-1)))

	require.NoError(t, a.TriggerSale(ctx, owner, false))
	c, err = a.GetCollection(ctx)
	require.NoError(t, err)
	assert.Equal(t, common.SaleStateInactive, c.SaleState())
}

func TestEditWhitelist(t *testing.T) {
	ctx := context.Background()
	a := getTestApp(t, getTestCfg(t, 4096))

	require.NoError(t, a.EditWhitelist(ctx, owner, []common.FlowAddress{owner, second}, true))

	e, err := a.GetWhitelistEntry(ctx, owner)
	require.NoError(t, err)
	assert.True(t, e.Whitelisted)
	e, err = a.GetWhitelistEntry(ctx, second)
	require.NoError(t, err)
	assert.True(t, e.Whitelisted)

	require.NoError(t, a.EditWhitelist(ctx, owner, []common.FlowAddress{second}, false))

	e, err = a.GetWhitelistEntry(ctx, second)
	require.NoError(t, err)
	assert.False(t, e.Whitelisted)

	e, err = a.GetWhitelistEntry(ctx, common.FlowAddressFromString("0x99"))
	require.NoError(t, err)
	assert.False(t, e.Whitelisted)
	assert.Equal(t, uint64(0), e.Minted)
}

func TestAccess(t *testing.T) {
	ctx := context.Background()
	a := getTestApp(t, getTestCfg(t, 4096))

	assert.ErrorIs(t, a.TriggerSale(ctx, second, true), mint_errors.ErrNotAuthorized)
	assert.ErrorIs(t, a.SetPrice(ctx, second, wei("0.2")), mint_errors.ErrNotAuthorized)
	assert.ErrorIs(t, a.EditWhitelist(ctx, second, []common.FlowAddress{owner, second}, true), mint_errors.ErrNotAuthorized)
	assert.ErrorIs(t, a.SetWhitelistPerWallet(ctx, second, 3), mint_errors.ErrNotAuthorized)
	assert.ErrorIs(t, a.SetBaseURI(ctx, second, "example.com"), mint_errors.ErrNotAuthorized)
	_, err := a.WithdrawEther(ctx, second, owner)
	assert.ErrorIs(t, err, mint_errors.ErrNotAuthorized)

	c, err := a.GetCollection(ctx)
	require.NoError(t, err)
	assert.False(t, c.SaleStarted)
	assert.Equal(t, "", c.BaseURI)
	e, err := a.GetWhitelistEntry(ctx, second)
	require.NoError(t, err)
	assert.False(t, e.Whitelisted)
}

func TestMint(t *testing.T) {
	ctx := context.Background()
	a := getTestApp(t, getTestCfg(t, 10))

	require.NoError(t, a.TriggerSale(ctx, owner, true))
	require.NoError(t, a.SetBaseURI(ctx, owner, "example.com"))

	res, err := a.Mint(ctx, owner, 5, wei("0.1"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.FirstID)
	assert.Equal(t, uint64(5), res.LastID)
	assert.Equal(t, owner, res.Owner)

	balance, err := a.BalanceOf(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), balance)

	uri, err := a.TokenURI(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "example.com1", uri)

	tokenOwner, err := a.OwnerOf(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, owner, tokenOwner)

	_, err = a.OwnerOf(ctx, 6)
	assert.Error(t, err)

	c, err := a.GetCollection(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), c.MintedSupply)
	assert.True(t, c.CustodyBalance.Equal(wei("0.1")))
}

func TestMintWhitelist(t *testing.T) {
	ctx := context.Background()
	a := getTestApp(t, getTestCfg(t, 10))

	require.NoError(t, a.TriggerSale(ctx, owner, true))
	require.NoError(t, a.EditWhitelist(ctx, owner, []common.FlowAddress{owner}, true))

	_, err := a.Mint(ctx, owner, 3, wei("0.04"))
	require.NoError(t, err)

	e, err := a.GetWhitelistEntry(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), e.Minted)

	require.NoError(t, a.SetWhitelistPerWallet(ctx, owner, 2))

	_, err = a.Mint(ctx, owner, 1, decimal.Zero)
	require.NoError(t, err)

	e, err = a.GetWhitelistEntry(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), e.Minted)

	require.NoError(t, a.SetWhitelistPerWallet(ctx, owner, 1))

	_, err = a.Mint(ctx, owner, 1, wei("0.02"))
	require.NoError(t, err)

	e, err = a.GetWhitelistEntry(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), e.Minted)

	balance, err := a.BalanceOf(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), balance)
}

func TestWhitelistReAddKeepsQuota(t *testing.T) {
	ctx := context.Background()
	a := getTestApp(t, getTestCfg(t, 10))

	require.NoError(t, a.TriggerSale(ctx, owner, true))
	require.NoError(t, a.EditWhitelist(ctx, owner, []common.FlowAddress{second}, true))

	_, err := a.Mint(ctx, second, 1, decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, a.EditWhitelist(ctx, owner, []common.FlowAddress{second}, false))
	require.NoError(t, a.EditWhitelist(ctx, owner, []common.FlowAddress{second}, true))

	e, err := a.GetWhitelistEntry(ctx, second)
	require.NoError(t, err)
	assert.True(t, e.Whitelisted)
	assert.Equal(t, uint64(1), e.Minted)

	_, err = a.Mint(ctx, second, 1, decimal.Zero)
	assert.ErrorIs(t, err, mint_errors.ErrWrongPaymentAmount)
}

func TestMintRejections(t *testing.T) {
	ctx := context.Background()
	a := getTestApp(t, getTestCfg(t, 10))

	_, err := a.Mint(ctx, owner, 1, wei("0.02"))
	assert.ErrorIs(t, err, mint_errors.ErrSaleNotStarted)

	require.NoError(t, a.TriggerSale(ctx, owner, true))

	_, err = a.Mint(ctx, owner, 0, decimal.Zero)
	assert.ErrorIs(t, err, mint_errors.ErrZeroQuantity)

	_, err = a.Mint(ctx, owner, 3, wei("0.04"))
	assert.ErrorIs(t, err, mint_errors.ErrWrongPaymentAmount)
	kind, ok := mint_errors.KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, mint_errors.KindWrongPaymentAmount, kind)

	_, err = a.Mint(ctx, owner, 11, wei("0.22"))
	assert.ErrorIs(t, err, mint_errors.ErrCapReached)

	c, err := a.GetCollection(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), c.MintedSupply)
	assert.True(t, c.CustodyBalance.IsZero())

	events, err := a.ListMintEvents(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestMintEvents(t *testing.T) {
	ctx := context.Background()
	a := getTestApp(t, getTestCfg(t, 10))

	require.NoError(t, a.TriggerSale(ctx, owner, true))
	_, err := a.Mint(ctx, second, 3, wei("0.06"))
	require.NoError(t, err)

	events, err := a.ListMintEvents(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 3)

	ids := map[uint64]bool{}
	for _, e := range events {
		ids[e.TokenID] = true
		assert.Equal(t, second, e.Owner)
		assert.Equal(t, "A.0000000000000002.NFTS.Minted", e.Type)

		values, err := flow_helpers.DecodeValues(e.Payload)
		require.NoError(t, err)
		require.Len(t, values, 2)
		assert.Equal(t, cadence.NewUInt64(e.TokenID), values[0])
		assert.Equal(t, second.Cadence(), values[1])
	}
	assert.Equal(t, map[uint64]bool{1: true, 2: true, 3: true}, ids)

	page, err := a.ListMintEvents(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestWithdrawEther(t *testing.T) {
	ctx := context.Background()
	a := getTestApp(t, getTestCfg(t, 10))

	require.NoError(t, a.TriggerSale(ctx, owner, true))
	_, err := a.Mint(ctx, owner, 2, wei("0.04"))
	require.NoError(t, err)

	w, err := a.WithdrawEther(ctx, owner, owner)
	require.NoError(t, err)
	assert.True(t, w.Amount.Equal(wei("0.04")))

	c, err := a.GetCollection(ctx)
	require.NoError(t, err)
	assert.True(t, c.CustodyBalance.IsZero())

	paid, err := a.PayoutBalance(ctx, owner)
	require.NoError(t, err)
	assert.True(t, paid.Equal(wei("0.04")))

	// Nothing left, the second withdrawal moves nothing
	w, err = a.WithdrawEther(ctx, owner, owner)
	require.NoError(t, err)
	assert.True(t, w.Amount.IsZero())

	withdrawals, err := a.ListWithdrawals(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, withdrawals, 2)
}

func TestWithdrawEtherTransferFailed(t *testing.T) {
	ctx := context.Background()
	a := getTestApp(t, getTestCfg(t, 10))

	require.NoError(t, a.TriggerSale(ctx, owner, true))
	_, err := a.Mint(ctx, owner, 2, wei("0.04"))
	require.NoError(t, err)

	_, err = a.WithdrawEther(ctx, owner, collection)
	assert.ErrorIs(t, err, mint_errors.ErrTransferFailed)

	c, err := a.GetCollection(ctx)
	require.NoError(t, err)
	assert.True(t, c.CustodyBalance.Equal(wei("0.04")))

	paid, err := a.PayoutBalance(ctx, collection)
	require.NoError(t, err)
	assert.True(t, paid.IsZero())

	withdrawals, err := a.ListWithdrawals(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, withdrawals)
}
