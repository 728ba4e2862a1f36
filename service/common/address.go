package common

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/onflow/cadence"
	"github.com/onflow/flow-go-sdk"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// FlowAddress identifies a participant: a caller, an item owner or a
// withdrawal destination.
type FlowAddress flow.Address

var EmptyAddress = FlowAddress(flow.EmptyAddress)

func (a FlowAddress) String() string {
	return flow.Address(a).String()
}

// Hex returns the 0x prefixed representation used on the HTTP surface.
func (a FlowAddress) Hex() string {
	return "0x" + flow.Address(a).Hex()
}

func (a FlowAddress) IsEmpty() bool {
	return a == EmptyAddress
}

func (a FlowAddress) Cadence() cadence.Address {
	return cadence.NewAddress(flow.Address(a))
}

func (a FlowAddress) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", a.Hex())), nil
}

func (a *FlowAddress) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), "\"")
	parsed, err := ParseFlowAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a FlowAddress) Value() (driver.Value, error) {
	return flow.Address(a).Bytes(), nil
}

// GormDBDataType keeps addresses indexable on mysql, which can not index
// plain blobs.
func (FlowAddress) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "varbinary(8)"
	case "postgres":
		return "bytea"
	default:
		return "blob"
	}
}

func (a *FlowAddress) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to unmarshal FlowAddress value: %v", value)
	}
	*a = FlowAddress(flow.BytesToAddress(bytes))
	return nil
}

// ParseFlowAddress parses a hex address with or without the 0x prefix.
// Unlike flow.HexToAddress it rejects malformed input instead of silently
// returning the empty address.
func ParseFlowAddress(s string) (FlowAddress, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if h == "" {
		return EmptyAddress, fmt.Errorf("empty address")
	}
	if len(h) > 2*flow.AddressLength {
		return EmptyAddress, fmt.Errorf("address too long: %s", s)
	}
	if len(h)%2 == 1 {
		h = "0" + h
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return EmptyAddress, fmt.Errorf("malformed address %q: %w", s, err)
	}
	return FlowAddress(flow.BytesToAddress(b)), nil
}

// FlowAddressFromString is ParseFlowAddress for trusted input, mainly tests.
func FlowAddressFromString(s string) FlowAddress {
	return FlowAddress(flow.HexToAddress(s))
}
