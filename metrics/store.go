// Package metrics provides the time-indexed performance counter model that
// simulator perf logs are folded into.
package metrics

// Event is a single performance counter sample reported by a simulator.
type Event struct {
	// Time is the simulated tick at which the sample was emitted.
	Time int64
	// Namespace is the hierarchical path of the reporting unit,
	// e.g. "ctrlBlock.rob".
	Namespace string
	// Name is the counter name within the namespace.
	Name string
	// Value is the sampled counter value.
	Value int64
}

// Bucket is the flattened view of one (time, namespace, name) cell.
type Bucket struct {
	Time      int64
	Namespace string
	Name      string
	Values    []int64
}

// AllZero reports whether every value in the bucket equals zero.
func (b Bucket) AllZero() bool {
	for _, v := range b.Values {
		if v != 0 {
			return false
		}
	}
	return true
}

type counter struct {
	name   string
	values []int64
}

type namespaceBucket struct {
	namespace string
	counters  []*counter
	byName    map[string]*counter
}

type timeBucket struct {
	time       int64
	namespaces []*namespaceBucket
	byName     map[string]*namespaceBucket
}

// Store is an ordered three-level aggregation of events:
// time -> namespace -> name -> values. Every level keeps first-insertion
// order, and values keep arrival order.
//
// A Store returned by a parser must be treated as read-only.
type Store struct {
	times  []*timeBucket
	byTime map[int64]*timeBucket
	events int
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		byTime: make(map[int64]*timeBucket),
	}
}

// Fold builds a Store from events in the given order.
func Fold(events []Event) *Store {
	s := NewStore()
	for _, e := range events {
		s.Add(e)
	}
	return s
}

// Add appends the event value to its bucket, creating the time, namespace
// and name levels as needed.
func (s *Store) Add(e Event) {
	tb, ok := s.byTime[e.Time]
	if !ok {
		tb = &timeBucket{
			time:   e.Time,
			byName: make(map[string]*namespaceBucket),
		}
		s.byTime[e.Time] = tb
		s.times = append(s.times, tb)
	}

	nb, ok := tb.byName[e.Namespace]
	if !ok {
		nb = &namespaceBucket{
			namespace: e.Namespace,
			byName:    make(map[string]*counter),
		}
		tb.byName[e.Namespace] = nb
		tb.namespaces = append(tb.namespaces, nb)
	}

	c, ok := nb.byName[e.Name]
	if !ok {
		c = &counter{name: e.Name}
		nb.byName[e.Name] = c
		nb.counters = append(nb.counters, c)
	}

	c.values = append(c.values, e.Value)
	s.events++
}

// Len returns the number of events folded into the store.
func (s *Store) Len() int {
	return s.events
}

// Times returns the distinct ticks in first-seen order.
func (s *Store) Times() []int64 {
	times := make([]int64, 0, len(s.times))
	for _, tb := range s.times {
		times = append(times, tb.time)
	}
	return times
}

// Namespaces returns the namespaces reported at the given tick in
// first-seen order.
func (s *Store) Namespaces(time int64) []string {
	tb, ok := s.byTime[time]
	if !ok {
		return nil
	}

	names := make([]string, 0, len(tb.namespaces))
	for _, nb := range tb.namespaces {
		names = append(names, nb.namespace)
	}
	return names
}

// Values returns a copy of the values recorded for one bucket.
func (s *Store) Values(time int64, namespace, name string) ([]int64, bool) {
	tb, ok := s.byTime[time]
	if !ok {
		return nil, false
	}
	nb, ok := tb.byName[namespace]
	if !ok {
		return nil, false
	}
	c, ok := nb.byName[name]
	if !ok {
		return nil, false
	}
	return append([]int64(nil), c.values...), true
}

// Buckets returns every bucket in insertion order.
func (s *Store) Buckets() []Bucket {
	var buckets []Bucket
	s.Each(func(b Bucket) {
		b.Values = append([]int64(nil), b.Values...)
		buckets = append(buckets, b)
	})
	return buckets
}

// Each calls fn for every bucket in insertion order. The Values slice
// passed to fn must not be retained or modified.
func (s *Store) Each(fn func(b Bucket)) {
	for _, tb := range s.times {
		for _, nb := range tb.namespaces {
			for _, c := range nb.counters {
				fn(Bucket{
					Time:      tb.time,
					Namespace: nb.namespace,
					Name:      c.name,
					Values:    c.values,
				})
			}
		}
	}
}
