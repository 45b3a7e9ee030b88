package utils

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/godist/pelican/core/gibbs"
	"github.com/klauspost/compress/gzip"
	"gonum.org/v1/gonum/mat"
)

// Open opens filename for reading, transparently gunzipping when the
// extension is .gz.
func Open(filename string) (io.ReadCloser, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	if path.Ext(filename) != ".gz" {
		return f, nil
	}
	z, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &readCloser{z, f}, nil
}

// Create creates filename for writing, gzipping when the extension
// is .gz.
func Create(filename string) (io.WriteCloser, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	if path.Ext(filename) != ".gz" {
		return f, nil
	}
	return &writeCloser{gzip.NewWriter(f), f}, nil
}

type readCloser struct {
	io.ReadCloser
	file *os.File
}

func (r *readCloser) Close() error {
	if err := r.ReadCloser.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}

type writeCloser struct {
	*gzip.Writer
	file *os.File
}

func (w *writeCloser) Close() error {
	if err := w.Writer.Close(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// LoadVocab loads a vocabulary file with one token per line; the line
// number is the token's matrix column id.
func LoadVocab(filename string) (*gibbs.Vocabulary, error) {
	r, err := Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open vocab %s: %w", filename, err)
	}
	defer r.Close()

	v := gibbs.NewVocabulary()
	if err := v.Load(r); err != nil {
		return nil, fmt.Errorf("load vocab %s: %w", filename, err)
	}
	return v, nil
}

// LoadMatrix reads a document-term matrix in the UCI bag-of-words
// "docword" layout: three header lines D, W and NNZ, followed by NNZ
// lines of "docID wordID count" with 1-based ids.
func LoadMatrix(filename string) (*mat.Dense, error) {
	r, err := Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open matrix %s: %w", filename, err)
	}
	defer r.Close()

	s := bufio.NewScanner(r)
	header := make([]int, 0, 3)
	for len(header) < 3 && s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("matrix %s: bad header line %q", filename, line)
		}
		header = append(header, n)
	}
	if len(header) < 3 {
		return nil, fmt.Errorf("matrix %s: truncated header", filename)
	}
	d, w, nnz := header[0], header[1], header[2]

	X := mat.NewDense(d, w, nil)
	read := 0
	for s.Scan() {
		fs := strings.Fields(s.Text())
		if len(fs) == 0 {
			continue
		}
		if len(fs) != 3 {
			return nil, fmt.Errorf("matrix %s: bad entry %q", filename, s.Text())
		}
		di, e1 := strconv.Atoi(fs[0])
		wi, e2 := strconv.Atoi(fs[1])
		c, e3 := strconv.Atoi(fs[2])
		if e1 != nil || e2 != nil || e3 != nil ||
			di < 1 || di > d || wi < 1 || wi > w || c < 0 {
			return nil, fmt.Errorf("matrix %s: bad entry %q", filename, s.Text())
		}
		X.Set(di-1, wi-1, X.At(di-1, wi-1)+float64(c))
		read++
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("read matrix %s: %w", filename, err)
	}
	if read != nnz {
		return nil, fmt.Errorf("matrix %s: header says %d entries, found %d",
			filename, nnz, read)
	}
	return X, nil
}

// SavedModel is the serialized trained artifact: the point estimates,
// the final raw count tables, and the priors needed to score held-out
// documents.
type SavedModel struct {
	NumTopics int
	VocabSize int
	NumDocs   int
	Alpha     float64
	Eta       float64
	Phi       []float64 // K x V, row-major
	Theta     []float64 // D x K, row-major
	Nzw       []int64
	Ndz       []int64
	Nz        []int64
}

func Snapshot(m *gibbs.Model) *SavedModel {
	phi := m.Phi()
	theta := m.Theta()
	k, v := phi.Dims()
	d, _ := theta.Dims()
	s := &SavedModel{
		NumTopics: k,
		VocabSize: v,
		NumDocs:   d,
		Alpha:     m.TopicPrior[0],
		Eta:       m.WordPrior,
		Phi:       make([]float64, k*v),
		Theta:     make([]float64, d*k),
		Nzw:       append([]int64(nil), m.Nzw...),
		Ndz:       append([]int64(nil), m.Ndz...),
		Nz:        append([]int64(nil), m.Nz...),
	}
	for i := 0; i < k; i++ {
		copy(s.Phi[i*v:(i+1)*v], phi.RawRowView(i))
	}
	for i := 0; i < d; i++ {
		copy(s.Theta[i*k:(i+1)*k], theta.RawRowView(i))
	}
	return s
}

// PhiMatrix rebuilds the topic-word matrix for scoring.
func (s *SavedModel) PhiMatrix() *mat.Dense {
	return mat.NewDense(s.NumTopics, s.VocabSize, s.Phi)
}

// TopicPrior rebuilds the broadcast alpha vector.
func (s *SavedModel) TopicPrior() []float64 {
	prior := make([]float64, s.NumTopics)
	for i := range prior {
		prior[i] = s.Alpha
	}
	return prior
}

func SaveModel(m *SavedModel, filename string) error {
	w, err := Create(filename)
	if err != nil {
		return fmt.Errorf("create model %s: %w", filename, err)
	}
	if err := gob.NewEncoder(w).Encode(m); err != nil {
		w.Close()
		return fmt.Errorf("encode model: %w", err)
	}
	return w.Close()
}

func LoadModel(filename string) (*SavedModel, error) {
	r, err := Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open model %s: %w", filename, err)
	}
	defer r.Close()

	m := new(SavedModel)
	if err := gob.NewDecoder(r).Decode(m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return m, nil
}
