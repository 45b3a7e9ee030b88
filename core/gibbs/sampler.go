package gibbs

// Sampler performs collapsed Gibbs sweeps over a token stream, as
// described in *Finding Scientific Topics* by Griffiths and Steyvers
// (PNAS 2004).  The continuous Dirichlet parameters are marginalized
// out; only the discrete topic assignments are resampled, conditioned
// on the count tables.
//
// A sweep visits tokens in the fixed order of the stream.  The
// conditional for each token never includes the token itself: its
// counts are removed before scoring and restored after the draw.
type Sampler struct {
	model *Model
	// cum is the cumulative conditional reused across tokens, so the
	// inner loop does not allocate.
	cum []float64
}

func NewSampler(m *Model) *Sampler {
	return &Sampler{
		model: m,
		cum:   make([]float64, m.NumTopics()),
	}
}

// Sweep resamples every token's topic exactly once, updating the
// count tables and the stream's topic assignments in place.  The
// caller reshuffles the pool before each sweep; draws are consumed
// one per token, wrapping when the pool is exhausted.
func (s *Sampler) Sweep(ts *TokenStream, pool *RandPool) error {
	m := s.model
	K, V := m.NumTopics(), m.VocabSize()
	eta, etaSum := m.WordPrior, m.WordPriorSum

	for i := range ts.Words {
		w := int(ts.Words[i])
		d := int(ts.Docs[i])
		z := int(ts.Topics[i])

		// Remove the token's own contribution.
		m.Nzw[z*V+w]--
		m.Ndz[d*K+z]--
		m.Nz[z]--

		cum := 0.0
		for k := 0; k < K; k++ {
			cum += (float64(m.Ndz[d*K+k]) + m.TopicPrior[k]) *
				(float64(m.Nzw[k*V+w]) + eta) /
				(float64(m.Nz[k]) + etaSum)
			s.cum[k] = cum
		}
		if !(cum > 0) {
			return &InvalidStateError{
				Reason: "conditional distribution has zero mass"}
		}

		// Inverse-CDF draw: the first k whose cumulative score
		// reaches the threshold wins.
		r := pool.Next() * cum
		z = 0
		for s.cum[z] < r {
			z++
		}

		m.Nzw[z*V+w]++
		m.Ndz[d*K+z]++
		m.Nz[z]++
		ts.Topics[i] = int32(z)
	}
	return nil
}
