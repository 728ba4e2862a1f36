package errors

import (
	"errors"
	"fmt"
)

type NilConfigError struct{}

func (e *NilConfigError) Error() string {
	return "config can not be nil"
}

// Kind names a rejection reason of the minting controller.
type Kind string

const (
	KindNotAuthorized      Kind = "NotAuthorized"
	KindSaleNotStarted     Kind = "SaleNotStarted"
	KindZeroQuantity       Kind = "ZeroQuantity"
	KindCapReached         Kind = "CapReached"
	KindWrongPaymentAmount Kind = "WrongPaymentAmount"
	KindTransferFailed     Kind = "TransferFailed"
)

// MintError is a reject-and-abort failure. Operations returning one have
// left no side effects.
type MintError struct {
	Kind   Kind
	Reason string
}

func (e *MintError) Error() string {
	return e.Reason
}

var (
	ErrNotAuthorized      = &MintError{KindNotAuthorized, "caller is not the owner"}
	ErrSaleNotStarted     = &MintError{KindSaleNotStarted, "sale has not started"}
	ErrZeroQuantity       = &MintError{KindZeroQuantity, "zero mint"}
	ErrCapReached         = &MintError{KindCapReached, "cap reached"}
	ErrWrongPaymentAmount = &MintError{KindWrongPaymentAmount, "wrong ether amount provided"}
	ErrTransferFailed     = &MintError{KindTransferFailed, "failed transfer ether"}
)

// KindOf returns the kind of the first MintError in err's chain.
func KindOf(err error) (Kind, bool) {
	var me *MintError
	if errors.As(err, &me) {
		return me.Kind, true
	}
	return "", false
}

// Wrap annotates a MintError with detail while keeping it matchable with
// errors.Is.
func Wrap(err *MintError, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...))
}
