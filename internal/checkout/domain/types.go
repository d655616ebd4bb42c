package domain

// Item is a cart entry as seen by checkout.
type Item struct {
	ID     int64
	Name   string
	Serial string
	Image  string
	URL    string
}

type Failure struct {
	Item  Item
	Error string
}

// Result partitions the attempted items by outcome, in cart order.
type Result struct {
	Succeeded []Item
	Failed    []Failure
}

func (r Result) Attempted() int {
	return len(r.Succeeded) + len(r.Failed)
}

// AllSucceeded is false for an empty result.
func (r Result) AllSucceeded() bool {
	return len(r.Failed) == 0 && len(r.Succeeded) > 0
}

func (r Result) FailedItems() []Item {
	out := make([]Item, 0, len(r.Failed))
	for _, f := range r.Failed {
		out = append(out, f.Item)
	}
	return out
}
