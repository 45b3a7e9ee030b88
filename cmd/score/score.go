// score estimates marginal log-probabilities of held-out documents
// under a trained model, using the left-to-right particle estimator.
// It prints one log-probability per input row, in row order.
//
// Usage:
/*
  score -model=/tmp/model.gob.gz -matrix=./testdata/heldout.txt -particles=20
*/
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"

	"github.com/godist/pelican/core/gibbs"
	"github.com/godist/pelican/core/utils"
	"go.uber.org/zap"
)

func main() {
	flagModel := flag.String("model", "", "Trained model file")
	flagMatrix := flag.String("matrix", "", "Held-out document-term matrix file")
	flagParticles := flag.Int("particles", 20, "Particles per document")
	flagSeed := flag.Int64("seed", 0, "Random seed")
	flagPool := flag.Int("pool", 1000, "Reusable uniform draw pool size")
	flagSequential := flag.Bool("sequential", false, "Disable the scoring worker pool")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	saved, err := utils.LoadModel(*flagModel)
	if err != nil {
		logger.Fatal("load model", zap.Error(err))
	}
	X, err := utils.LoadMatrix(*flagMatrix)
	if err != nil {
		logger.Fatal("load matrix", zap.Error(err))
	}
	d, v := X.Dims()
	if v != saved.VocabSize {
		logger.Fatal("vocabulary size does not match trained model",
			zap.Int("matrix", v), zap.Int("model", saved.VocabSize))
	}

	rng := rand.New(rand.NewSource(*flagSeed))
	pool := gibbs.NewRandPool(*flagPool, rng)
	scorer := gibbs.NewScorer(saved.PhiMatrix(), saved.TopicPrior())

	docs := make([][]int32, d)
	for i := 0; i < d; i++ {
		docs[i] = gibbs.ExpandRow(X, i)
	}

	workers := runtime.GOMAXPROCS(0)
	if *flagSequential {
		workers = 1
	}
	logprobs, err := scorer.ScoreAll(docs, *flagParticles, pool, rng, workers)
	if err != nil {
		logger.Fatal("score", zap.Error(err))
	}
	for _, lp := range logprobs {
		fmt.Println(lp)
	}
}
