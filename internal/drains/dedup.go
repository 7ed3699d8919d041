package drains

// dedupMap collects rows keyed by event id for one request. Duplicate keys
// within a payload are last-write-wins; iteration order is first-seen, so
// batch splits are deterministic.
type dedupMap[T any] struct {
	order []string
	rows  map[string]T
}

func newDedupMap[T any]() *dedupMap[T] {
	return &dedupMap[T]{rows: make(map[string]T)}
}

func (d *dedupMap[T]) put(id string, row T) {
	if _, seen := d.rows[id]; !seen {
		d.order = append(d.order, id)
	}
	d.rows[id] = row
}

func (d *dedupMap[T]) values() []T {
	if len(d.order) == 0 {
		return nil
	}
	out := make([]T, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.rows[id])
	}
	return out
}
