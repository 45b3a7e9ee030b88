package gibbs

import (
	"math"
	"math/rand"

	"github.com/godist/pelican/core/hist"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Scorer estimates marginal log-probabilities of held-out documents
// given fixed topic-word distributions, using the left-to-right
// sequential sampler of *Estimating Likelihoods for Topic Models*
// (Buntine, ACML 2009).  Documents are independent; scoring is the
// only parallel operation in the package.
type Scorer struct {
	phi        []float64 // K x V, row-major
	numTopics  int
	vocabSize  int
	topicPrior []float64
	priorSum   float64
}

func NewScorer(phi *mat.Dense, topicPrior []float64) *Scorer {
	k, v := phi.Dims()
	flat := make([]float64, k*v)
	for i := 0; i < k; i++ {
		copy(flat[i*v:(i+1)*v], phi.RawRowView(i))
	}
	var sum float64
	for _, a := range topicPrior {
		sum += a
	}
	return &Scorer{
		phi:        flat,
		numTopics:  k,
		vocabSize:  v,
		topicPrior: topicPrior,
		priorSum:   sum,
	}
}

// ScoreDoc estimates log p(doc) with particles independent simulated
// trajectories of document-topic counts.  Tokens are processed left
// to right; for each token every particle first contributes its
// predictive probability of the observed word, then resamples the
// token's topic from its own counts and records it.  The document's
// log-probability accumulates the log of the mean particle-wise
// predictive probability.
func (s *Scorer) ScoreDoc(tokens []int32, particles int, pool *RandPool) (float64, error) {
	K, V := s.numTopics, s.vocabSize
	parts := make([]hist.Dense, particles)
	for r := range parts {
		parts[r] = hist.NewDense(K)
	}
	cum := make([]float64, K)

	logp := 0.0
	for n, word := range tokens {
		w := int(word)
		norm := float64(n) + s.priorSum
		pSum := 0.0
		for r := range parts {
			part := parts[r]

			// The unnormalized conditional over topics doubles as
			// the particle's predictive mass for w: its total,
			// divided by the count normalizer, is the predictive
			// probability that marginalizes the topic.
			c := 0.0
			for k := 0; k < K; k++ {
				c += s.phi[k*V+w] * (float64(part[k]) + s.topicPrior[k])
				cum[k] = c
			}
			if !(c > 0) {
				return 0, &InvalidStateError{
					Reason: "particle conditional has zero mass"}
			}
			pSum += c / norm

			// Resample this particle's topic for the current token.
			draw := pool.Next() * c
			z := 0
			for cum[z] < draw {
				z++
			}
			part.Inc(z, 1)
		}

		mean := pSum / float64(particles)
		if !(mean > 0) {
			return 0, &InvalidStateError{
				Reason: "zero predictive probability"}
		}
		logp += math.Log(mean)
	}
	return logp, nil
}

// ScoreAll scores every document and returns log-probabilities in
// input order.  Each document's run starts from a reshuffled pool;
// with workers > 1 documents are dispatched to a bounded pool of
// goroutines, each receiving its own clone of the pool state at
// dispatch time, so the parallel and sequential paths consume
// identical draw sequences.  A failing document aborts with a
// ScoringError carrying its index; completed documents' results are
// untouched.
func (s *Scorer) ScoreAll(docs [][]int32, particles int, pool *RandPool,
	rng *rand.Rand, workers int) ([]float64, error) {

	out := make([]float64, len(docs))

	if workers <= 1 {
		for i, tokens := range docs {
			pool.Shuffle(rng)
			lp, err := s.ScoreDoc(tokens, particles, pool)
			if err != nil {
				return nil, &ScoringError{Doc: i, Err: err}
			}
			out[i] = lp
		}
		return out, nil
	}

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, tokens := range docs {
		pool.Shuffle(rng)
		i, tokens := i, tokens
		snapshot := pool.Clone()
		g.Go(func() error {
			lp, err := s.ScoreDoc(tokens, particles, snapshot)
			if err != nil {
				return &ScoringError{Doc: i, Err: err}
			}
			out[i] = lp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
