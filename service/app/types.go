package app

import (
	"github.com/flow-hydraulics/flow-mint/service/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Collection is the single state row of the minting controller.
type Collection struct {
	gorm.Model

	// Fixed at construction
	Name           string `gorm:"column:name"`
	Symbol         string `gorm:"column:symbol"`
	MaxTotalSupply uint64 `gorm:"column:max_total_supply"`

	Price              decimal.Decimal `gorm:"column:price;type:text"` // In the smallest currency unit
	SaleStarted        bool            `gorm:"column:sale_started"`
	WhitelistPerWallet uint64          `gorm:"column:whitelist_per_wallet"` // Free units per allow-listed wallet
	BaseURI            string          `gorm:"column:base_uri"`

	MintedSupply   uint64          `gorm:"column:minted_supply"`
	CustodyBalance decimal.Decimal `gorm:"column:custody_balance;type:text"`
}

// WhitelistEntry is created on first allow-list edit or on the first mint
// that consumes quota. Minted never decreases.
type WhitelistEntry struct {
	gorm.Model

	Address     common.FlowAddress `gorm:"column:address;uniqueIndex;not null"`
	Whitelisted bool               `gorm:"column:whitelisted"`
	Minted      uint64             `gorm:"column:minted"` // Units minted for free under the quota
}

// Token is an issued item.
type Token struct {
	gorm.Model

	TokenID uint64             `gorm:"column:token_id;uniqueIndex"`
	Owner   common.FlowAddress `gorm:"column:owner;index"`
}

// MintEvent is emitted once per issued item for downstream indexing.
type MintEvent struct {
	gorm.Model
	ID uuid.UUID `gorm:"column:id;primary_key;type:uuid;"`

	Type    string             `gorm:"column:type"`
	TokenID uint64             `gorm:"column:token_id;index"`
	Owner   common.FlowAddress `gorm:"column:owner"`
	Payload datatypes.JSON     `gorm:"column:payload"` // JSON-CDC encoded event fields
}

// PayoutAccount holds funds released from custody to an address.
type PayoutAccount struct {
	gorm.Model

	Address common.FlowAddress `gorm:"column:address;uniqueIndex;not null"`
	Balance decimal.Decimal    `gorm:"column:balance;type:text"`
}

type Withdrawal struct {
	gorm.Model
	ID uuid.UUID `gorm:"column:id;primary_key;type:uuid;"`

	Destination common.FlowAddress `gorm:"column:destination"`
	Amount      decimal.Decimal    `gorm:"column:amount;type:text"`
}

type MintResult struct {
	Owner     common.FlowAddress
	FirstID   uint64
	LastID    uint64
	Quantity  uint64
	FreeUnits uint64
	Paid      decimal.Decimal
}

func (Collection) TableName() string {
	return "collections"
}

func (WhitelistEntry) TableName() string {
	return "whitelist_entries"
}

func (Token) TableName() string {
	return "tokens"
}

func (MintEvent) TableName() string {
	return "mint_events"
}

func (e *MintEvent) BeforeCreate(tx *gorm.DB) (err error) {
	e.ID = uuid.New()
	return nil
}

func (PayoutAccount) TableName() string {
	return "payout_accounts"
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}

func (w *Withdrawal) BeforeCreate(tx *gorm.DB) (err error) {
	w.ID = uuid.New()
	return nil
}

func (r MintResult) IDs() []uint64 {
	ids := make([]uint64, 0, r.Quantity)
	for i := uint64(0); i < r.Quantity; i++ {
		ids = append(ids, r.FirstID+i)
	}
	return ids
}
