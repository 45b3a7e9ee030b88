package gibbs

import (
	"math"
)

// LogJoint computes the collapsed joint log-probability of the
// corpus and its topic assignments,
//
//	log p(w,z) = log p(w|z) + log p(z),
//
// under the Dirichlet-multinomial model with the priors integrated
// out:
/*
   log p(w|z) = K logG(eta V)
              - sum_k logG(eta V + nz[k])
              + sum_k sum_w [ logG(eta + nzw[k][w]) - logG(eta) ]

   log p(z)   = sum_d [ logG(alpha K) - logG(alpha K + nd[d]) ]
              + sum_d sum_k [ logG(alpha + ndz[d][k]) - logG(alpha) ]
*/
// where logG is the log-gamma function and nd[d] is the length of
// document d.  Cells with zero count contribute exactly zero, since
// the added and subtracted log-gamma terms cancel; they are skipped.
//
// The value is stochastic across sweeps and not guaranteed to be
// non-decreasing.
func (m *Model) LogJoint() float64 {
	K, V, D := m.numTopics, m.vocabSize, m.numDocs
	lgEta, _ := math.Lgamma(m.WordPrior)
	lgEtaSum, _ := math.Lgamma(m.WordPriorSum)
	lgAlphaSum, _ := math.Lgamma(m.TopicPriorSum)

	ll := float64(K) * lgEtaSum
	for k := 0; k < K; k++ {
		lg, _ := math.Lgamma(m.WordPriorSum + float64(m.Nz[k]))
		ll -= lg
		for w := 0; w < V; w++ {
			if c := m.Nzw[k*V+w]; c > 0 {
				lg, _ = math.Lgamma(m.WordPrior + float64(c))
				ll += lg - lgEta
			}
		}
	}

	for d := 0; d < D; d++ {
		var nd int64
		for k := 0; k < K; k++ {
			nd += m.Ndz[d*K+k]
		}
		lg, _ := math.Lgamma(m.TopicPriorSum + float64(nd))
		ll += lgAlphaSum - lg
		for k := 0; k < K; k++ {
			if c := m.Ndz[d*K+k]; c > 0 {
				lgA, _ := math.Lgamma(m.TopicPrior[k])
				lg, _ = math.Lgamma(m.TopicPrior[k] + float64(c))
				ll += lg - lgA
			}
		}
	}
	return ll
}
