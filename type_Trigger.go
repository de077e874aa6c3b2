package captable

import (
	"encoding/json"
	"fmt"
)

// Trigger is the change-of-control acceleration attached to a vesting schedule.
type Trigger int

const (
	NoTrigger Trigger = iota
	SingleTrigger
	DoubleTrigger
)

func (t Trigger) String() string {
	switch t {
	case NoTrigger:
		return "none"
	case SingleTrigger:
		return "single"
	case DoubleTrigger:
		return "double"
	default:
		return "unknown"
	}
}

// ParseTrigger parses a string into a Trigger. The empty string is NoTrigger.
func ParseTrigger(s string) (Trigger, error) {
	switch s {
	case "", "none":
		return NoTrigger, nil
	case "single":
		return SingleTrigger, nil
	case "double":
		return DoubleTrigger, nil
	default:
		return 0, fmt.Errorf("%w: unknown vesting trigger: %q", ErrInvalidInput, s)
	}
}

func (t Trigger) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func (t *Trigger) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseTrigger(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}
