package crawler

import "github.com/law-makers/nutricrawl/pkg/models"

// Outcome is the fate of one extracted item
type Outcome int

const (
	// Accepted items are exported
	Accepted Outcome = iota
	// Rejected items had no nutrient values and were filtered out
	Rejected
	// Failed items hit an item-level error and were skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected_zero"
	default:
		return "skipped_error"
	}
}

// ItemEvent reports the outcome of one item
type ItemEvent struct {
	Index   int
	Total   int
	Item    models.ItemRef
	Outcome Outcome
	Record  *models.NutritionRecord
	Err     error
}

// Observer receives run progress. Calls happen on the controller goroutine.
type Observer interface {
	Discovered(total int)
	ItemDone(ev ItemEvent)
}

type nopObserver struct{}

func (nopObserver) Discovered(int)     {}
func (nopObserver) ItemDone(ItemEvent) {}
