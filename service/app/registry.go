package app

import (
	"fmt"

	"github.com/flow-hydraulics/flow-mint/service/common"
	"github.com/flow-hydraulics/flow-mint/service/flow_helpers"
	"github.com/onflow/cadence"
	"gorm.io/gorm"
)

const EventMinted = "Minted"

// Registry is the item ledger the controller issues items into. It owns
// ownership and balance semantics.
type Registry interface {
	Issue(db *gorm.DB, owner common.FlowAddress, id uint64) error
	OwnerOf(db *gorm.DB, id uint64) (common.FlowAddress, error)
	BalanceOf(db *gorm.DB, owner common.FlowAddress) (uint64, error)
}

// TokenRegistry keeps items in the tokens table and records a mint event
// per issued item.
type TokenRegistry struct {
	contract AddressLocation
}

// AddressLocation is a reference to a contract, rendered the way Flow
// qualifies event types: A.<address>.<name>.
type AddressLocation struct {
	Name    string
	Address common.FlowAddress
}

func (l AddressLocation) String() string {
	return fmt.Sprintf("A.%s.%s", l.Address, l.Name)
}

func (l AddressLocation) EventName(event string) string {
	return fmt.Sprintf("%s.%s", l, event)
}

func NewTokenRegistry(contract AddressLocation) *TokenRegistry {
	return &TokenRegistry{contract}
}

func (r *TokenRegistry) Issue(db *gorm.DB, owner common.FlowAddress, id uint64) error {
	if err := InsertToken(db, &Token{TokenID: id, Owner: owner}); err != nil {
		return fmt.Errorf("error while issuing token %d: %w", id, err)
	}

	payload, err := flow_helpers.EncodeValues([]cadence.Value{
		cadence.NewUInt64(id),
		owner.Cadence(),
	})
	if err != nil {
		return err
	}

	return InsertMintEvent(db, &MintEvent{
		Type:    r.contract.EventName(EventMinted),
		TokenID: id,
		Owner:   owner,
		Payload: payload,
	})
}

func (r *TokenRegistry) OwnerOf(db *gorm.DB, id uint64) (common.FlowAddress, error) {
	t, err := GetToken(db, id)
	if err != nil {
		return common.EmptyAddress, err
	}
	return t.Owner, nil
}

func (r *TokenRegistry) BalanceOf(db *gorm.DB, owner common.FlowAddress) (uint64, error) {
	return CountTokensOwnedBy(db, owner)
}
