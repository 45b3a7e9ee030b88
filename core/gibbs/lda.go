package gibbs

import (
	"math"
	"math/rand"
	"runtime"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Config parameterizes an LDA estimator.  Zero values fall back to
// the defaults noted per field; NumTopics is required.
type Config struct {
	NumTopics int
	NumIter   int     // sampling sweeps, default 1000
	Alpha     float64 // document-topic prior, default 0.1
	Eta       float64 // topic-word prior, default 0.01
	Seed      int64   // seed for the uniform source

	PoolSize  int // reusable uniform draws, default 1000
	EvalEvery int // log-likelihood reporting lag in sweeps, default 10

	// ParallelScore dispatches held-out scoring to a bounded worker
	// pool.  ScoreWorkers bounds it; 0 means GOMAXPROCS.  Training is
	// always sequential.
	ParallelScore bool
	ScoreWorkers  int

	Logger *zap.Logger
}

func (c Config) withDefaults() Config {
	if c.NumIter == 0 {
		c.NumIter = 1000
	}
	if c.Alpha == 0 {
		c.Alpha = 0.1
	}
	if c.Eta == 0 {
		c.Eta = 0.01
	}
	if c.PoolSize == 0 {
		c.PoolSize = 1000
	}
	if c.EvalEvery == 0 {
		c.EvalEvery = 10
	}
	if c.ScoreWorkers == 0 {
		c.ScoreWorkers = runtime.GOMAXPROCS(0)
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// LDA fits a latent Dirichlet allocation topic model by collapsed
// Gibbs sampling and evaluates held-out documents with the
// left-to-right particle estimator.  The trained artifact is the pair
// of point estimates Phi and Theta plus the final raw count tables;
// the token stream is released once fitting completes.
type LDA struct {
	conf Config
	rng  *rand.Rand
	pool *RandPool
	log  *zap.Logger

	model *Model
	ts    *TokenStream // non-nil only while fitting

	phi   *mat.Dense
	theta *mat.Dense
}

func New(conf Config) (*LDA, error) {
	conf = conf.withDefaults()
	if conf.NumTopics <= 0 {
		return nil, &InvalidShapeError{Reason: "NumTopics must be a positive integer"}
	}
	if conf.NumIter <= 0 || conf.PoolSize <= 0 {
		return nil, &InvalidShapeError{Reason: "NumIter and PoolSize must be positive"}
	}
	rng := rand.New(rand.NewSource(conf.Seed))
	return &LDA{
		conf: conf,
		rng:  rng,
		pool: NewRandPool(conf.PoolSize, rng),
		log:  conf.Logger,
	}, nil
}

// Fit runs NumIter full Gibbs sweeps over X, a non-negative
// integer-valued document-term matrix, then derives the Phi and Theta
// point estimates and releases the token stream.
func (l *LDA) Fit(X mat.Matrix) error {
	d, v := X.Dims()
	if l.conf.NumTopics > v {
		l.log.Warn("more topics than vocabulary entries; Phi rows will be extremely sparse",
			zap.Int("topics", l.conf.NumTopics), zap.Int("vocab", v))
	}

	ts, err := NewTokenStream(X)
	if err != nil {
		return err
	}
	m, err := NewModel(d, v, l.conf.NumTopics, l.conf.Alpha, l.conf.Eta)
	if err != nil {
		return err
	}
	m.RandomInit(ts, l.rng)
	l.model, l.ts = m, ts

	l.log.Info("fitting",
		zap.Int("documents", d),
		zap.Int("vocab", v),
		zap.Int("tokens", ts.Len()),
		zap.Int("topics", l.conf.NumTopics),
		zap.Int("iterations", l.conf.NumIter))

	sampler := NewSampler(m)
	for it := 0; it < l.conf.NumIter; it++ {
		if it%l.conf.EvalEvery == 0 {
			l.logStatus(it)
		}
		l.pool.Shuffle(l.rng)
		if err := sampler.Sweep(ts, l.pool); err != nil {
			return err
		}
	}
	l.logStatus(l.conf.NumIter)

	l.phi = m.Phi()
	l.theta = m.Theta()

	// O(N) assignment state is no longer needed; only the
	// O(K*V + D*K) estimates and tables survive fitting.
	l.ts = nil
	return nil
}

func (l *LDA) logStatus(it int) {
	ll := l.model.LogJoint()
	l.log.Info("sweep",
		zap.Int("iteration", it),
		zap.Float64("loglikelihood", ll),
		zap.Float64("logperplexity", -ll/float64(l.ts.Len())))
}

// FitTransform fits the model and returns the document-topic point
// estimate of the training set.
func (l *LDA) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := l.Fit(X); err != nil {
		return nil, err
	}
	return l.theta, nil
}

// Transform always fails: folding unseen documents into the trained
// topic space is unsupported.
func (l *LDA) Transform(X mat.Matrix) (*mat.Dense, error) {
	return nil, ErrNotImplemented
}

// LogLikelihood returns the collapsed joint log-likelihood
// log p(w,z) of the current count tables.
func (l *LDA) LogLikelihood() float64 {
	if l.model == nil {
		return math.Inf(-1)
	}
	return l.model.LogJoint()
}

// Components returns Phi, the topic-word probability matrix.
func (l *LDA) Components() *mat.Dense {
	return l.phi
}

// Theta returns the document-topic probability matrix of the
// training set.
func (l *LDA) Theta() *mat.Dense {
	return l.theta
}

// Model exposes the final raw count tables for diagnostics.
func (l *LDA) Model() *Model {
	return l.model
}

// Score estimates the marginal log-probability of each row of X
// under the trained Phi, using the left-to-right estimator with the
// given particle count.  Results are in row order.  The model's own
// pool and random source drive the draws, as during training.
func (l *LDA) Score(X mat.Matrix, particles int) ([]float64, error) {
	return l.score(X, particles, l.pool, l.rng)
}

// ScoreSeeded is Score with an explicit seed.  The pool is copied and
// put into a known sorted state first, so the result depends only on
// the seed and the trained model, not on how many draws earlier calls
// consumed.
func (l *LDA) ScoreSeeded(X mat.Matrix, particles int, seed int64) ([]float64, error) {
	pool := l.pool.Clone()
	pool.Sort()
	return l.score(X, particles, pool, rand.New(rand.NewSource(seed)))
}

func (l *LDA) score(X mat.Matrix, particles int, pool *RandPool, rng *rand.Rand) ([]float64, error) {
	if l.phi == nil {
		return nil, &InvalidStateError{Reason: "score called before fit"}
	}
	d, v := X.Dims()
	if _, pv := l.phi.Dims(); v != pv {
		return nil, &DimensionMismatchError{Want: pv, Got: v}
	}
	if particles <= 0 {
		return nil, &InvalidShapeError{Reason: "particle count must be positive"}
	}

	docs := make([][]int32, d)
	for i := 0; i < d; i++ {
		docs[i] = ExpandRow(X, i)
	}

	workers := 1
	if l.conf.ParallelScore {
		workers = l.conf.ScoreWorkers
	}
	scorer := NewScorer(l.phi, l.model.TopicPrior)
	return scorer.ScoreAll(docs, particles, pool, rng, workers)
}
