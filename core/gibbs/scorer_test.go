package gibbs

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testScorer() *Scorer {
	phi := mat.NewDense(2, 3, []float64{
		0.7, 0.2, 0.1,
		0.1, 0.3, 0.6,
	})
	return NewScorer(phi, []float64{0.1, 0.1})
}

func testDocs() [][]int32 {
	return [][]int32{
		{0, 0, 1},
		{2, 2, 2, 1},
		{0, 1, 2},
		{1},
		{2, 0},
	}
}

func TestScoreDocNegativeLogProb(t *testing.T) {
	s := testScorer()
	pool := NewRandPool(128, rand.New(rand.NewSource(1)))
	lp, err := s.ScoreDoc([]int32{0, 1, 2}, 10, pool)
	require.NoError(t, err)
	assert.Less(t, lp, 0.0, "log-probability of a non-trivial document")
}

func TestScoreDocEmptyDocument(t *testing.T) {
	s := testScorer()
	pool := NewRandPool(16, rand.New(rand.NewSource(1)))
	lp, err := s.ScoreDoc(nil, 5, pool)
	require.NoError(t, err)
	assert.Zero(t, lp)
}

func TestScoreDocReproducibleFromPoolState(t *testing.T) {
	s := testScorer()
	pool := NewRandPool(64, rand.New(rand.NewSource(5)))
	a, err := s.ScoreDoc([]int32{0, 2, 1, 2}, 8, pool.Clone())
	require.NoError(t, err)
	b, err := s.ScoreDoc([]int32{0, 2, 1, 2}, 8, pool.Clone())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestScoreAllParallelMatchesSequential(t *testing.T) {
	s := testScorer()
	docs := testDocs()

	seqPool := NewRandPool(256, rand.New(rand.NewSource(7)))
	seq, err := s.ScoreAll(docs, 10, seqPool, rand.New(rand.NewSource(3)), 1)
	require.NoError(t, err)

	parPool := NewRandPool(256, rand.New(rand.NewSource(7)))
	par, err := s.ScoreAll(docs, 10, parPool, rand.New(rand.NewSource(3)), 4)
	require.NoError(t, err)

	// Isolated pool clones make the two paths consume identical draw
	// sequences, so the results agree exactly, not just approximately.
	assert.Equal(t, seq, par)
}

func TestScoreAllKeepsInputOrder(t *testing.T) {
	s := testScorer()
	docs := testDocs()

	pool := NewRandPool(256, rand.New(rand.NewSource(11)))
	rng := rand.New(rand.NewSource(13))
	got, err := s.ScoreAll(docs, 10, pool, rng, 8)
	require.NoError(t, err)
	require.Len(t, got, len(docs))

	// Longer documents accumulate more negative log-probability than
	// a one-token document under the same Phi.
	assert.Less(t, got[1], got[3])
}

func TestScoreAllReportsFailingDocument(t *testing.T) {
	// Word 1 has zero probability under every topic, so the particle
	// conditional degenerates for the document that contains it.
	phi := mat.NewDense(2, 2, []float64{1, 0, 1, 0})
	s := NewScorer(phi, []float64{0.1, 0.1})
	docs := [][]int32{{0, 0}, {0, 1}, {0}}

	pool := NewRandPool(64, rand.New(rand.NewSource(1)))
	_, err := s.ScoreAll(docs, 4, pool, rand.New(rand.NewSource(2)), 1)
	require.Error(t, err)

	var se *ScoringError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Doc)

	var state *InvalidStateError
	assert.ErrorAs(t, err, &state)
}
