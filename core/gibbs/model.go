package gibbs

import (
	"fmt"

	"github.com/godist/pelican/core/hist"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Model holds the collapsed sampling state: three dense count tables
// kept in exact sync with the current topic assignments, plus the
// Dirichlet priors.  Nzw and Ndz are row-major; Nzw[k*V+w] counts
// tokens of word w assigned topic k, Ndz[d*K+k] counts tokens of
// document d assigned topic k, and Nz[k] is the topic total.
//
// Outside an in-flight single-token update,
// sum(Nzw) == sum(Ndz) == sum(Nz) == number of tokens.
type Model struct {
	Nzw []int64
	Ndz []int64
	Nz  []int64

	// TopicPrior is the scalar alpha broadcast to length K, kept as a
	// vector so an asymmetric prior stays expressible.  WordPrior is
	// the scalar eta; WordPriorSum is eta*V.
	TopicPrior    []float64
	TopicPriorSum float64
	WordPrior     float64
	WordPriorSum  float64

	numDocs   int
	numTopics int
	vocabSize int
}

func NewModel(numDocs, vocabSize, numTopics int, topicPrior, wordPrior float64) (*Model, error) {
	if numTopics <= 0 {
		return nil, &InvalidShapeError{
			Reason: fmt.Sprintf("numTopics = %d, must be positive", numTopics)}
	}
	if numDocs <= 0 || vocabSize <= 0 {
		return nil, &InvalidShapeError{
			Reason: fmt.Sprintf("corpus is %d docs x %d words", numDocs, vocabSize)}
	}
	if topicPrior <= 0 {
		return nil, &InvalidShapeError{
			Reason: fmt.Sprintf("topicPrior = %f, must be positive", topicPrior)}
	}
	if wordPrior <= 0 {
		return nil, &InvalidShapeError{
			Reason: fmt.Sprintf("wordPrior = %f, must be positive", wordPrior)}
	}

	m := &Model{
		Nzw:           make([]int64, numTopics*vocabSize),
		Ndz:           make([]int64, numDocs*numTopics),
		Nz:            make([]int64, numTopics),
		TopicPrior:    make([]float64, numTopics),
		TopicPriorSum: topicPrior * float64(numTopics),
		WordPrior:     wordPrior,
		WordPriorSum:  wordPrior * float64(vocabSize),
		numDocs:       numDocs,
		numTopics:     numTopics,
		vocabSize:     vocabSize,
	}
	for i := range m.TopicPrior {
		m.TopicPrior[i] = topicPrior
	}
	return m, nil
}

func (m *Model) NumDocs() int {
	return m.numDocs
}

func (m *Model) NumTopics() int {
	return m.numTopics
}

func (m *Model) VocabSize() int {
	return m.vocabSize
}

// Totals returns the grand totals of the three tables.  They agree
// with each other and with the token count whenever no single-token
// update is in flight.
func (m *Model) Totals() (nzw, ndz, nz int64) {
	for _, c := range m.Nzw {
		nzw += c
	}
	for _, c := range m.Ndz {
		ndz += c
	}
	for _, c := range m.Nz {
		nz += c
	}
	return
}

// Phi returns the point estimate of the topic-word distributions,
// (Nzw + eta) row-normalized.  Every row sums to 1 and every entry is
// strictly positive thanks to prior smoothing.
func (m *Model) Phi() *mat.Dense {
	phi := mat.NewDense(m.numTopics, m.vocabSize, nil)
	for k := 0; k < m.numTopics; k++ {
		row := phi.RawRowView(k)
		for w := 0; w < m.vocabSize; w++ {
			row[w] = float64(m.Nzw[k*m.vocabSize+w]) + m.WordPrior
		}
		floats.Scale(1/floats.Sum(row), row)
	}
	return phi
}

// Theta returns the point estimate of the document-topic
// distributions, (Ndz + alpha) row-normalized.
func (m *Model) Theta() *mat.Dense {
	theta := mat.NewDense(m.numDocs, m.numTopics, nil)
	for d := 0; d < m.numDocs; d++ {
		row := theta.RawRowView(d)
		for k := 0; k < m.numTopics; k++ {
			row[k] = float64(m.Ndz[d*m.numTopics+k]) + m.TopicPrior[k]
		}
		floats.Scale(1/floats.Sum(row), row)
	}
	return theta
}

// TopWords ranks the words of a topic by assignment count, heaviest
// first, and keeps the top n.  Words with zero count are omitted.
func (m *Model) TopWords(topic, n int) *hist.OrderedSparse {
	wordHist := hist.NewSparse()
	for w := 0; w < m.vocabSize; w++ {
		if c := m.Nzw[topic*m.vocabSize+w]; c > 0 {
			wordHist.Inc(w, int(c))
		}
	}
	return hist.NewOrderedSparse().Assign(wordHist).Truncate(n)
}
