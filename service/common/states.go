package common

type SaleState uint

const (
	SaleStateInactive SaleState = iota
	SaleStateActive
)

func SaleStateFromFlag(started bool) SaleState {
	if started {
		return SaleStateActive
	}
	return SaleStateInactive
}

func (s SaleState) String() string {
	switch s {
	case SaleStateActive:
		return "active"
	default:
		return "inactive"
	}
}
