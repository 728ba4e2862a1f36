package app

import (
	"fmt"

	"github.com/flow-hydraulics/flow-mint/service/common"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payments moves funds out of custody. A failed transfer must leave no
// trace; implementations run inside the caller's transaction.
type Payments interface {
	Transfer(db *gorm.DB, destination common.FlowAddress, amount decimal.Decimal) error
}

// PayoutLedger credits payout accounts. The collection's own address, like
// a contract without a receive hook, can not accept transfers.
type PayoutLedger struct {
	self common.FlowAddress
}

func NewPayoutLedger(self common.FlowAddress) *PayoutLedger {
	return &PayoutLedger{self}
}

func (l *PayoutLedger) Transfer(db *gorm.DB, destination common.FlowAddress, amount decimal.Decimal) error {
	if destination.IsEmpty() {
		return fmt.Errorf("transfer to the empty address")
	}

	if destination == l.self {
		return fmt.Errorf("destination %s does not accept transfers", destination)
	}

	if err := common.ValidateAmount(amount); err != nil {
		return err
	}

	account, err := GetPayoutAccount(db, destination)
	if err != nil {
		return err
	}

	account.Balance = account.Balance.Add(amount)

	return SavePayoutAccount(db, account)
}
