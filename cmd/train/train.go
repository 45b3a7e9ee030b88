// train is a command line trainer.  It fits an LDA topic model to a
// document-term matrix in the UCI docword layout by collapsed Gibbs
// sampling, reports the collapsed joint log-likelihood as it goes,
// prints the top words of each topic, and saves the trained model.
//
// Usage:
/*
  train -matrix=./testdata/docword.txt -vocab=./testdata/vocab.txt \
    -topics=10 -iter=500 -model=/tmp/model.gob.gz
*/
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/godist/pelican/core/gibbs"
	"github.com/godist/pelican/core/utils"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// TrainConfig mirrors the command line flags so a training run can be
// described by a YAML file instead.
type TrainConfig struct {
	Matrix   string  `yaml:"matrix"`
	Vocab    string  `yaml:"vocab"`
	Topics   int     `yaml:"topics"`
	Iter     int     `yaml:"iter"`
	Alpha    float64 `yaml:"alpha"`
	Eta      float64 `yaml:"eta"`
	Seed     int64   `yaml:"seed"`
	PoolSize int     `yaml:"pool_size"`
	EvalLag  int     `yaml:"eval_lag"`
	Model    string  `yaml:"model"`
	TopWords int     `yaml:"top_words"`
}

func main() {
	flagAddr := flag.String("addr", ":6060", "HTTP status page address")
	flagConfig := flag.String("config", "", "YAML training config; overrides other flags")
	cfg := TrainConfig{}
	flag.StringVar(&cfg.Matrix, "matrix", "./testdata/docword.txt", "Document-term matrix file")
	flag.StringVar(&cfg.Vocab, "vocab", "", "Optional vocabulary file, one token per line")
	flag.IntVar(&cfg.Topics, "topics", 10, "Number of topics to be learned")
	flag.IntVar(&cfg.Iter, "iter", 1000, "Gibbs sampling iterations")
	flag.Float64Var(&cfg.Alpha, "alpha", 0.1, "Document-topic prior")
	flag.Float64Var(&cfg.Eta, "eta", 0.01, "Topic-word prior")
	flag.Int64Var(&cfg.Seed, "seed", 0, "Random seed")
	flag.IntVar(&cfg.PoolSize, "pool", 1000, "Reusable uniform draw pool size")
	flag.IntVar(&cfg.EvalLag, "eval_lag", 10, "Evaluation lag in iterations")
	flag.StringVar(&cfg.Model, "model", "", "The model output file")
	flag.IntVar(&cfg.TopWords, "top_words", 10, "Words printed per topic")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *flagConfig != "" {
		b, err := os.ReadFile(*flagConfig)
		if err != nil {
			logger.Fatal("read config", zap.Error(err))
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			logger.Fatal("parse config", zap.Error(err))
		}
	}

	is := utils.EnableExpvar(*flagAddr, func(e error) {
		logger.Fatal("status page", zap.Error(e))
	})
	is.Start()

	X, err := utils.LoadMatrix(cfg.Matrix)
	if err != nil {
		logger.Fatal("load matrix", zap.Error(err))
	}
	d, v := X.Dims()

	rng := rand.New(rand.NewSource(cfg.Seed))
	ts, err := gibbs.NewTokenStream(X)
	if err != nil {
		logger.Fatal("build token stream", zap.Error(err))
	}
	model, err := gibbs.NewModel(d, v, cfg.Topics, cfg.Alpha, cfg.Eta)
	if err != nil {
		logger.Fatal("build model", zap.Error(err))
	}
	model.RandomInit(ts, rng)
	pool := gibbs.NewRandPool(cfg.PoolSize, rng)
	sampler := gibbs.NewSampler(model)

	logger.Info("initialized",
		zap.Int("documents", d),
		zap.Int("vocab", v),
		zap.Int("tokens", ts.Len()),
		zap.Int("topics", cfg.Topics))
	is.End(0)

	bar := pb.StartNew(cfg.Iter)
	for iter := 0; iter < cfg.Iter; iter++ {
		is.Start()
		pool.Shuffle(rng)
		if err := sampler.Sweep(ts, pool); err != nil {
			logger.Fatal("sweep", zap.Int("iteration", iter), zap.Error(err))
		}

		if iter%cfg.EvalLag == 0 {
			ll := model.LogJoint()
			logger.Info("iteration",
				zap.Int("iteration", iter),
				zap.Float64("loglikelihood", ll),
				zap.Float64("logperplexity", -ll/float64(ts.Len())))
			is.End(ll)
		} else {
			is.End(0)
		}
		bar.Increment()
	}
	bar.Finish()

	ll := model.LogJoint()
	logger.Info("done", zap.Float64("loglikelihood", ll))

	if cfg.Vocab != "" {
		vocab, err := utils.LoadVocab(cfg.Vocab)
		if err != nil {
			logger.Fatal("load vocab", zap.Error(err))
		}
		if vocab.Len() != v {
			logger.Fatal("vocab size does not match matrix",
				zap.Int("vocab", vocab.Len()), zap.Int("matrix", v))
		}
		utils.PrintTopics(os.Stdout,
			utils.DescribeTopics(model, vocab, cfg.TopWords))
	}

	if cfg.Model != "" {
		if err := utils.SaveModel(utils.Snapshot(model), cfg.Model); err != nil {
			logger.Fatal("save model", zap.Error(err))
		}
		logger.Info("saved model", zap.String("path", cfg.Model))
	}
}
