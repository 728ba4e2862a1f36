package app

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/flow-hydraulics/flow-mint/service/common"
	"github.com/flow-hydraulics/flow-mint/service/config"
	"github.com/flow-hydraulics/flow-mint/service/errors"
	"github.com/shopspring/decimal"
)

// NewCollection builds the initial state row: sale closed, empty base URI,
// nothing minted and nothing in custody.
func NewCollection(cfg *config.Config) (*Collection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	price, err := cfg.InitialPrice()
	if err != nil {
		return nil, err
	}

	return &Collection{
		Name:               cfg.CollectionName,
		Symbol:             cfg.CollectionSymbol,
		MaxTotalSupply:     cfg.MaxTotalSupply,
		Price:              price,
		WhitelistPerWallet: cfg.WhitelistPerWallet,
		CustodyBalance:     decimal.Zero,
	}, nil
}

func (c Collection) SaleState() common.SaleState {
	return common.SaleStateFromFlag(c.SaleStarted)
}

func (c Collection) RemainingSupply() uint64 {
	return c.MaxTotalSupply - c.MintedSupply
}

// TriggerSale opens or closes the sale gate. Setting the current state again
// is not an error.
func (c *Collection) TriggerSale(active bool) {
	c.SaleStarted = active
}

func (c *Collection) SetPrice(price decimal.Decimal) error {
	if err := common.ValidateAmount(price); err != nil {
		return fmt.Errorf("invalid price: %w", err)
	}
	c.Price = price
	return nil
}

// SetWhitelistPerWallet replaces the quota. Entries which already consumed
// more than the new quota are left as is and simply get no further free units.
func (c *Collection) SetWhitelistPerWallet(n uint64) {
	c.WhitelistPerWallet = n
}

func (c *Collection) SetBaseURI(base string) {
	c.BaseURI = base
}

// TokenURI returns the locator of item id, or an empty string while no base
// is set.
func (c Collection) TokenURI(id uint64) string {
	if c.BaseURI == "" {
		return ""
	}
	return c.BaseURI + strconv.FormatUint(id, 10)
}

// FreeUnits returns how many of quantity units entry may mint without
// paying. A nil entry is a wallet which was never allow-listed.
func (c Collection) FreeUnits(entry *WhitelistEntry, quantity uint64) uint64 {
	if entry == nil || !entry.Whitelisted || entry.Minted >= c.WhitelistPerWallet {
		return 0
	}
	if left := c.WhitelistPerWallet - entry.Minted; left < quantity {
		return left
	}
	return quantity
}

func (c Collection) RequiredPayment(payableUnits uint64) decimal.Decimal {
	units := decimal.NewFromBigInt(new(big.Int).SetUint64(payableUnits), 0)
	return units.Mul(c.Price)
}

// Mint validates a mint of quantity items paid with paid and, only if every
// check passes, applies it to c and entry. entry must belong to the caller;
// it is only modified when free units are consumed.
//
// Checks run in order and the first failure is returned: sale gate, zero
// quantity, supply cap, exact payment.
func (c *Collection) Mint(entry *WhitelistEntry, quantity uint64, paid decimal.Decimal) (*MintResult, error) {
	if !c.SaleStarted {
		return nil, errors.ErrSaleNotStarted
	}

	if quantity == 0 {
		return nil, errors.ErrZeroQuantity
	}

	if quantity > c.RemainingSupply() {
		return nil, errors.Wrap(errors.ErrCapReached,
			"requested %d, %d of %d left", quantity, c.RemainingSupply(), c.MaxTotalSupply)
	}

	free := c.FreeUnits(entry, quantity)
	required := c.RequiredPayment(quantity - free)
	if !paid.Equal(required) {
		return nil, errors.Wrap(errors.ErrWrongPaymentAmount,
			"required %s, got %s", required, paid)
	}

	// Commit
	res := &MintResult{
		FirstID:   c.MintedSupply + 1,
		Quantity:  quantity,
		FreeUnits: free,
		Paid:      paid,
	}

	if free > 0 {
		entry.Minted += free
	}

	c.MintedSupply += quantity
	c.CustodyBalance = c.CustodyBalance.Add(paid)
	res.LastID = c.MintedSupply

	return res, nil
}

// ReleaseCustody empties the custody balance and returns what it held.
func (c *Collection) ReleaseCustody() decimal.Decimal {
	amount := c.CustodyBalance
	c.CustodyBalance = decimal.Zero
	return amount
}
