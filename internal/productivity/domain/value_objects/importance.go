package value_objects

import "fmt"

const (
	MinImportance     = 1
	MaxImportance     = 10
	DefaultImportance = 5
)

// Importance is a user-assigned weight of a task in [1,10].
type Importance int

// NewImportance clamps n into the valid range.
func NewImportance(n int) Importance {
	switch {
	case n < MinImportance:
		return MinImportance
	case n > MaxImportance:
		return MaxImportance
	default:
		return Importance(n)
	}
}

// Int returns the importance as a plain integer.
func (i Importance) Int() int { return int(i) }

// IsZero reports whether the importance was never set.
func (i Importance) IsZero() bool { return i == 0 }

// OrDefault returns DefaultImportance for an unset value.
func (i Importance) OrDefault() Importance {
	if i.IsZero() {
		return DefaultImportance
	}
	return NewImportance(int(i))
}

// Bucket groups the importance into high (>=7), mid (4-6) and low (<=3).
func (i Importance) Bucket() string {
	switch {
	case i >= 7:
		return "high"
	case i >= 4:
		return "mid"
	default:
		return "low"
	}
}

func (i Importance) String() string {
	return fmt.Sprintf("%d", int(i))
}
