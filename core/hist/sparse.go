package hist

import (
	"fmt"
	"sort"
)

// Sparse is a map-backed histogram.  It holds per-topic word counts
// while ranking the words of a topic, where the key space is the
// vocabulary and most entries are zero.
type Sparse map[int32]int64

func NewSparse() Sparse {
	return make(Sparse)
}

func (s Sparse) Len() int {
	return len(s)
}

func (s Sparse) At(key int) int64 {
	return s[int32(key)]
}

func (s Sparse) Inc(key, count int) {
	if count <= 0 {
		panic(fmt.Sprintf("Inc(key=%d, count=%d): count must > 0",
			key, count))
	}
	s[int32(key)] += int64(count)
}

func (s Sparse) Dec(key, count int) {
	if count <= 0 {
		panic(fmt.Sprintf("Dec(key=%d, count=%d): count must > 0",
			key, count))
	}
	k := int32(key)
	s[k] -= int64(count)
	if s[k] == 0 {
		delete(s, k)
	}
}

func (s Sparse) ForEach(p func(key int, count int64) error) error {
	for k, v := range s {
		if e := p(int(k), v); e != nil {
			return e
		}
	}
	return nil
}

func (s Sparse) Clone() Hist {
	n := NewSparse()
	for k, v := range s {
		n[k] = v
	}
	return n
}

// OrderedSparse is a histogram represented by two aligned arrays with
// Counts kept in descending order.  It is the ranking view used to
// report the heaviest words of a topic.
type OrderedSparse struct {
	Keys   []int32
	Counts []int64
}

func NewOrderedSparse() *OrderedSparse {
	return &OrderedSparse{}
}

// Len makes OrderedSparse compatible with sort.Interface.
func (o *OrderedSparse) Len() int {
	return len(o.Keys)
}

// Less sorts by descending count; ties break on ascending key so the
// ranking is deterministic.
func (o *OrderedSparse) Less(i, j int) bool {
	return o.Counts[i] > o.Counts[j] ||
		(o.Counts[i] == o.Counts[j] && o.Keys[i] < o.Keys[j])
}

func (o *OrderedSparse) Swap(i, j int) {
	o.Keys[i], o.Keys[j] = o.Keys[j], o.Keys[i]
	o.Counts[i], o.Counts[j] = o.Counts[j], o.Counts[i]
}

// Assign clears o and rebuilds it as the descending-count view of s.
func (o *OrderedSparse) Assign(s Hist) *OrderedSparse {
	o.Keys = make([]int32, 0, s.Len())
	o.Counts = make([]int64, 0, s.Len())
	s.ForEach(func(key int, count int64) error {
		o.Keys = append(o.Keys, int32(key))
		o.Counts = append(o.Counts, count)
		return nil
	})
	sort.Sort(o)
	return o
}

// Truncate keeps the n heaviest entries.
func (o *OrderedSparse) Truncate(n int) *OrderedSparse {
	if n < len(o.Keys) {
		o.Keys = o.Keys[:n]
		o.Counts = o.Counts[:n]
	}
	return o
}

// ForEach goes over elements in the order of descending count.
func (o *OrderedSparse) ForEach(p func(key int, count int64) error) error {
	for i := range o.Keys {
		if e := p(int(o.Keys[i]), o.Counts[i]); e != nil {
			return e
		}
	}
	return nil
}

// String prints an OrderedSparse variable as key:count pairs.
func (o *OrderedSparse) String() string {
	out := "[ "
	for i, key := range o.Keys {
		out += fmt.Sprintf("%d:%d ", key, o.Counts[i])
	}
	return out + "]"
}
