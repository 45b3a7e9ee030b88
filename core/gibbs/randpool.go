package gibbs

import (
	"math/rand"
	"sort"
)

// RandPool is a fixed-size buffer of uniform draws in [0,1) shared by
// the sampler and the scorer.  The buffer is reshuffled, never
// regenerated, so the same seed reproduces the same sequence of
// consumed values across runs.  Its size is independent of the corpus
// size; draws wrap around when the buffer is exhausted.
type RandPool struct {
	vals   []float64
	cursor int
}

func NewRandPool(size int, rng *rand.Rand) *RandPool {
	p := &RandPool{vals: make([]float64, size)}
	for i := range p.vals {
		p.vals[i] = rng.Float64()
	}
	return p
}

// Shuffle permutes the buffered draws in place and rewinds the
// cursor.  Called before each sampling sweep and before each
// document's scoring run.
func (p *RandPool) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(p.vals), func(i, j int) {
		p.vals[i], p.vals[j] = p.vals[j], p.vals[i]
	})
	p.cursor = 0
}

// Sort puts the buffer into a known state, so that scoring with an
// explicit seed is reproducible regardless of how many draws earlier
// calls consumed.
func (p *RandPool) Sort() {
	sort.Float64s(p.vals)
	p.cursor = 0
}

// Next returns the draw under the cursor and advances it, wrapping at
// the end of the buffer.
func (p *RandPool) Next() float64 {
	v := p.vals[p.cursor]
	p.cursor++
	if p.cursor == len(p.vals) {
		p.cursor = 0
	}
	return v
}

// Clone returns an isolated copy of the pool state.  Each document
// dispatched to the scoring pool gets its own clone, so results do
// not depend on worker scheduling order.
func (p *RandPool) Clone() *RandPool {
	n := &RandPool{vals: make([]float64, len(p.vals)), cursor: p.cursor}
	copy(n.vals, p.vals)
	return n
}

func (p *RandPool) Len() int {
	return len(p.vals)
}
