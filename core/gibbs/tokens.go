package gibbs

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// TokenStream is the flattened corpus: one entry per observed word
// occurrence.  Words, Docs and Topics are index aligned; entry i
// describes the same token in all three arrays.  The stream is built
// once from the document-term matrix, mutated in place by the sampler
// for the life of training, and released when point estimates have
// been derived.
type TokenStream struct {
	Words  []int32
	Docs   []int32
	Topics []int32
}

func (ts *TokenStream) Len() int {
	return len(ts.Words)
}

// NewTokenStream flattens a non-negative integer-valued document-term
// matrix into (word, doc) pairs, ordered by document and then by word
// id, each word repeated by its count.  Topic slots are allocated but
// unassigned; see Model.RandomInit.
func NewTokenStream(X mat.Matrix) (*TokenStream, error) {
	d, v := X.Dims()
	if d <= 0 || v <= 0 {
		return nil, &InvalidShapeError{
			Reason: fmt.Sprintf("document-term matrix is %dx%d", d, v)}
	}

	n := 0
	for i := 0; i < d; i++ {
		rowTotal := 0
		for j := 0; j < v; j++ {
			c := X.At(i, j)
			if c < 0 || c != math.Trunc(c) {
				return nil, &InvalidShapeError{
					Reason: fmt.Sprintf("X[%d,%d] = %v is not a non-negative integer",
						i, j, c)}
			}
			rowTotal += int(c)
		}
		if rowTotal == 0 {
			return nil, &InvalidShapeError{
				Reason: fmt.Sprintf("document %d has no tokens", i)}
		}
		n += rowTotal
	}

	ts := &TokenStream{
		Words:  make([]int32, 0, n),
		Docs:   make([]int32, 0, n),
		Topics: make([]int32, n),
	}
	for i := 0; i < d; i++ {
		for j := 0; j < v; j++ {
			for c := int(X.At(i, j)); c > 0; c-- {
				ts.Words = append(ts.Words, int32(j))
				ts.Docs = append(ts.Docs, int32(i))
			}
		}
	}
	return ts, nil
}

// ExpandRow turns one row of a document-term matrix into the token
// list consumed by the scorer.  Zero rows yield an empty list.
func ExpandRow(X mat.Matrix, row int) []int32 {
	_, cols := X.Dims()
	var tokens []int32
	for j := 0; j < cols; j++ {
		for c := int(X.At(row, j)); c > 0; c-- {
			tokens = append(tokens, int32(j))
		}
	}
	return tokens
}

// RandomInit assigns every token a topic drawn uniformly from [0, K)
// and records the assignment in the count tables.  The stream and the
// tables are in sync from here on.
func (m *Model) RandomInit(ts *TokenStream, rng *rand.Rand) {
	for i := range ts.Words {
		w, d := ts.Words[i], ts.Docs[i]
		z := rng.Intn(m.NumTopics())
		ts.Topics[i] = int32(z)
		m.Nzw[z*m.VocabSize()+int(w)]++
		m.Ndz[int(d)*m.NumTopics()+z]++
		m.Nz[z]++
	}
}
