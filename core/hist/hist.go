// Package hist provides the count histograms used by the Gibbs
// sampling core: a dense fixed-width histogram for topic-count
// vectors, a map-backed sparse histogram for accumulating counts over
// a large key space, and an ordered sparse histogram for ranking.
package hist

type Hist interface {
	At(key int) int64
	Inc(key, count int)
	Dec(key, count int)
	Len() int

	// ForEach visits histogram elements one by one.  For each
	// element <key, count>, it calls p(key, count).  If p returns
	// nil, traversal continues; otherwise traversal stops and the
	// error from p is returned.
	ForEach(p func(key int, count int64) error) error

	Clone() Hist
}

// Dense is a histogram backed by a plain count array.  It represents
// topic-count vectors whose length is the number of topics, such as a
// scoring particle's document-topic counts.
type Dense []int64

func NewDense(dim int) Dense {
	return make(Dense, dim)
}

func (d Dense) At(key int) int64 {
	return d[key]
}

func (d Dense) Inc(key, count int) {
	d[key] += int64(count)
}

func (d Dense) Dec(key, count int) {
	d[key] -= int64(count)
}

func (d Dense) Len() int {
	return len(d)
}

func (d Dense) Total() int64 {
	var t int64
	for _, v := range d {
		t += v
	}
	return t
}

func (d Dense) Reset() {
	for i := range d {
		d[i] = 0
	}
}

func (d Dense) ForEach(p func(key int, count int64) error) error {
	for i, v := range d {
		if e := p(i, v); e != nil {
			return e
		}
	}
	return nil
}

func (d Dense) Clone() Hist {
	n := NewDense(d.Len())
	copy(n, d)
	return n
}
