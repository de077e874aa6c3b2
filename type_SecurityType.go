package captable

import (
	"encoding/json"
	"fmt"
)

// SecurityType is the kind of funding instrument a Security is.
type SecurityType int

const (
	Common SecurityType = iota
	Preferred
	Convertible
	Option
	Warrant
)

func (t SecurityType) String() string {
	switch t {
	case Common:
		return "common"
	case Preferred:
		return "preferred"
	case Convertible:
		return "convertible"
	case Option:
		return "option"
	case Warrant:
		return "warrant"
	default:
		return "unknown"
	}
}

// ParseSecurityType parses a string into a SecurityType.
func ParseSecurityType(s string) (SecurityType, error) {
	switch s {
	case "common":
		return Common, nil
	case "preferred":
		return Preferred, nil
	case "convertible":
		return Convertible, nil
	case "option":
		return Option, nil
	case "warrant":
		return Warrant, nil
	default:
		return 0, fmt.Errorf("%w: unknown security type: %q", ErrInvalidInput, s)
	}
}

// Class is the consideration triple active for a security type.
type Class int

const (
	Equity Class = iota // shares, returned, cash, refunded
	Debt                // principal, forgiven
	Rights              // granted, exercised, cancelled
)

func (c Class) String() string {
	switch c {
	case Equity:
		return "equity"
	case Debt:
		return "debt"
	case Rights:
		return "rights"
	default:
		return "unknown"
	}
}

// Class returns the consideration class of the security type.
func (t SecurityType) Class() Class {
	switch t {
	case Convertible:
		return Debt
	case Option, Warrant:
		return Rights
	default:
		return Equity
	}
}

func (t SecurityType) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func (t *SecurityType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseSecurityType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}
