package captable

import (
	"encoding/json"
	"fmt"
)

// Status is the lifecycle state of a Certificate. Only outstanding
// certificates take part in vesting, conversion and liquidation.
type Status int

const (
	Outstanding Status = iota
	Cancelled
	Transferred
	Exercised
	Converted
)

func (s Status) String() string {
	switch s {
	case Outstanding:
		return "outstanding"
	case Cancelled:
		return "cancelled"
	case Transferred:
		return "transferred"
	case Exercised:
		return "exercised"
	case Converted:
		return "converted"
	default:
		return "unknown"
	}
}

// ParseStatus parses a string into a Status. The empty string is Outstanding.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "", "outstanding":
		return Outstanding, nil
	case "cancelled":
		return Cancelled, nil
	case "transferred":
		return Transferred, nil
	case "exercised":
		return Exercised, nil
	case "converted":
		return Converted, nil
	default:
		return 0, fmt.Errorf("%w: unknown certificate status: %q", ErrInvalidInput, s)
	}
}

func (s Status) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	v, err := ParseStatus(str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
