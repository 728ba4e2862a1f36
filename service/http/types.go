package http

import (
	"encoding/json"
	"time"

	"github.com/flow-hydraulics/flow-mint/service/app"
	"github.com/flow-hydraulics/flow-mint/service/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReqTriggerSale struct {
	Active bool `json:"active"`
}

type ReqSetPrice struct {
	Price decimal.Decimal `json:"price"`
}

type ReqEditWhitelist struct {
	Addresses []common.FlowAddress `json:"addresses"`
	Active    bool                 `json:"active"`
}

type ReqSetWhitelistPerWallet struct {
	PerWallet uint64 `json:"perWallet"`
}

type ReqSetBaseURI struct {
	BaseURI string `json:"baseURI"`
}

type ReqWithdrawEther struct {
	Destination common.FlowAddress `json:"destination"`
}

type ReqMint struct {
	Quantity int64           `json:"quantity"` // Anything below 1 is a zero mint
	Value    decimal.Decimal `json:"value"` // Attached payment in the smallest currency unit
}

type ResError struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

type ResCollection struct {
	Name               string          `json:"name"`
	Symbol             string          `json:"symbol"`
	MaxTotalSupply     uint64          `json:"maxTotalSupply"`
	TotalSupply        uint64          `json:"totalSupply"`
	Price              decimal.Decimal `json:"price"`
	SaleStarted        bool            `json:"saleStarted"`
	SaleState          string          `json:"saleState"`
	WhitelistPerWallet uint64          `json:"whitelistPerWallet"`
	BaseURI            string          `json:"baseURI"`
	CustodyBalance     decimal.Decimal `json:"custodyBalance"`
}

type ResWhitelistEntry struct {
	Address     common.FlowAddress `json:"address"`
	Whitelisted bool               `json:"whitelisted"`
	Minted      uint64             `json:"minted"`
}

type ResMint struct {
	Owner     common.FlowAddress `json:"owner"`
	TokenIDs  []uint64           `json:"tokenIDs"`
	FreeUnits uint64             `json:"freeUnits"`
	Paid      decimal.Decimal    `json:"paid"`
}

type ResToken struct {
	TokenID uint64             `json:"tokenID"`
	Owner   common.FlowAddress `json:"owner"`
	URI     string             `json:"uri"`
}

type ResTokenURI struct {
	URI string `json:"uri"`
}

type ResOwnerBalance struct {
	Owner   common.FlowAddress `json:"owner"`
	Balance uint64             `json:"balance"`
}

type ResPayoutAccount struct {
	Address common.FlowAddress `json:"address"`
	Balance decimal.Decimal    `json:"balance"`
}

type ResWithdrawal struct {
	ID          uuid.UUID          `json:"withdrawalID"`
	CreatedAt   time.Time          `json:"createdAt"`
	Destination common.FlowAddress `json:"destination"`
	Amount      decimal.Decimal    `json:"amount"`
}

type ResMintEvent struct {
	ID        uuid.UUID          `json:"eventID"`
	CreatedAt time.Time          `json:"createdAt"`
	Type      string             `json:"type"`
	TokenID   uint64             `json:"tokenID"`
	Owner     common.FlowAddress `json:"owner"`
	Payload   json.RawMessage    `json:"payload"`
}

func ResCollectionFromApp(c *app.Collection) ResCollection {
	return ResCollection{
		Name:               c.Name,
		Symbol:             c.Symbol,
		MaxTotalSupply:     c.MaxTotalSupply,
		TotalSupply:        c.MintedSupply,
		Price:              c.Price,
		SaleStarted:        c.SaleStarted,
		SaleState:          c.SaleState().String(),
		WhitelistPerWallet: c.WhitelistPerWallet,
		BaseURI:            c.BaseURI,
		CustodyBalance:     c.CustodyBalance,
	}
}

func ResWhitelistEntryFromApp(e *app.WhitelistEntry) ResWhitelistEntry {
	return ResWhitelistEntry{
		Address:     e.Address,
		Whitelisted: e.Whitelisted,
		Minted:      e.Minted,
	}
}

func ResMintFromApp(r *app.MintResult) ResMint {
	return ResMint{
		Owner:     r.Owner,
		TokenIDs:  r.IDs(),
		FreeUnits: r.FreeUnits,
		Paid:      r.Paid,
	}
}

func ResWithdrawalFromApp(w *app.Withdrawal) ResWithdrawal {
	return ResWithdrawal{
		ID:          w.ID,
		CreatedAt:   w.CreatedAt,
		Destination: w.Destination,
		Amount:      w.Amount,
	}
}

func ResWithdrawalListFromApp(ww []app.Withdrawal) []ResWithdrawal {
	res := make([]ResWithdrawal, len(ww))
	for i := range ww {
		res[i] = ResWithdrawalFromApp(&ww[i])
	}
	return res
}

func ResMintEventListFromApp(ee []app.MintEvent) []ResMintEvent {
	res := make([]ResMintEvent, len(ee))
	for i, e := range ee {
		res[i] = ResMintEvent{
			ID:        e.ID,
			CreatedAt: e.CreatedAt,
			Type:      e.Type,
			TokenID:   e.TokenID,
			Owner:     e.Owner,
			Payload:   json.RawMessage(e.Payload),
		}
	}
	return res
}
