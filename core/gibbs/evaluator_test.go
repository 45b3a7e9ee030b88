package gibbs

import (
	"math"
	"testing"
)

// naiveLogJoint recomputes log p(w,z) without skipping zero-count
// cells.  The added and subtracted log-gamma terms must cancel, so it
// has to agree with the skipping implementation to tolerance.
func naiveLogJoint(m *Model) float64 {
	K, V, D := m.NumTopics(), m.VocabSize(), m.NumDocs()
	lgEta, _ := math.Lgamma(m.WordPrior)
	lgEtaSum, _ := math.Lgamma(m.WordPriorSum)
	lgAlphaSum, _ := math.Lgamma(m.TopicPriorSum)

	ll := float64(K) * lgEtaSum
	for k := 0; k < K; k++ {
		lg, _ := math.Lgamma(m.WordPriorSum + float64(m.Nz[k]))
		ll -= lg
		for w := 0; w < V; w++ {
			lg, _ = math.Lgamma(m.WordPrior + float64(m.Nzw[k*V+w]))
			ll += lg - lgEta
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
			lgA, _ := math.Lgamma(m.TopicPrior[k])
			lg, _ = math.Lgamma(m.TopicPrior[k] + float64(m.Ndz[d*K+k]))
			ll += lg - lgA
		}
	}
	return ll
}

func TestLogJointZeroSkippingCancels(t *testing.T) {
	m := fitSmallModel(t, 17)
	skipped := m.LogJoint()
	naive := naiveLogJoint(m)
	if math.Abs(skipped-naive) > 1e-9 {
		t.Errorf("zero-skipping changed the value: %v vs %v", skipped, naive)
	}
}

func TestLogJointFiniteNegative(t *testing.T) {
	m := fitSmallModel(t, 29)
	ll := m.LogJoint()
	if math.IsNaN(ll) || math.IsInf(ll, 0) {
		t.Fatalf("log-likelihood is not finite: %v", ll)
	}
	if ll >= 0 {
		t.Errorf("log p(w,z) must be negative for a non-trivial corpus, got %v", ll)
	}
}

func TestLogJointHandComputedSingleToken(t *testing.T) {
	// One document, one word, one topic: the collapsed joint has a
	// closed form.
	m, err := NewModel(1, 1, 1, 0.1, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	m.Nzw[0] = 1
	m.Ndz[0] = 1
	m.Nz[0] = 1

	// log p(w|z) = logG(eta) - logG(eta+1) + logG(eta+1) - logG(eta) = 0
	// log p(z)   = logG(alpha) - logG(alpha+1) + logG(alpha+1) - logG(alpha) = 0
	if got := m.LogJoint(); math.Abs(got) > 1e-12 {
		t.Errorf("expecting 0, got %v", got)
	}
}
