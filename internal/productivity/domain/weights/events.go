package weights

import "github.com/felixgeelhaar/priora/internal/shared/domain"

const (
	AggregateType      = "Weights"
	AggregateID        = "current"
	RoutingKeyReplaced = "priora.weights.replaced"
)

// Source names how a weight vector was produced.
const (
	SourceManual  = "manual"
	SourcePreset  = "preset"
	SourceLearned = "learned"
)

// Replaced is emitted whenever the process-wide vector is swapped.
type Replaced struct {
	domain.BaseEvent
	Weights Vector `json:"weights"`
	Source  string `json:"source"`
}

// NewReplaced creates a Replaced event.
func NewReplaced(v Vector, source string) *Replaced {
	return &Replaced{
		BaseEvent: domain.NewBaseEvent(AggregateID, AggregateType, RoutingKeyReplaced),
		Weights:   v,
		Source:    source,
	}
}
