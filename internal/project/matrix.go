// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package project

import (
	"fmt"
	"sort"

	"github.com/james-bowman/nlp"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/pdiddy/paper-clusters/pkg/types"
)

// TermMatrix is a fitted TF-IDF representation of a corpus. Rows of
// Weights are documents in corpus order, columns are vocabulary terms in
// alphabetical order, and every non-zero row has unit L2 norm.
type TermMatrix struct {
	cfg     types.VectorConfig
	vocab   []string
	index   map[string]int
	weights *mat.Dense
	idf     *nlp.TfidfTransformer
}

// BuildTermMatrix fits a vocabulary and IDF weighting over docs and
// returns the weighted document-term matrix. Terms are kept when they
// occur in at least cfg.MinDF documents and in no more than
// cfg.MaxDF * len(docs) documents; the survivors are capped at the
// cfg.MaxFeatures most frequent. It returns an error wrapping
// ErrEmptyVocabulary when nothing survives.
func BuildTermMatrix(docs []string, cfg types.VectorConfig) (*TermMatrix, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("building term matrix: no documents: %w", ErrEmptyVocabulary)
	}
	if cfg.MinDF <= 0 {
		cfg.MinDF = 1
	}
	if cfg.MaxDF <= 0 || cfg.MaxDF > 1 {
		cfg.MaxDF = 1
	}

	n := len(docs)
	maxDocCount := cfg.MaxDF * float64(n)
	if maxDocCount < float64(cfg.MinDF) {
		return nil, fmt.Errorf("building term matrix: max_df %.2f of %d documents is fewer than min_df %d: %w",
			cfg.MaxDF, n, cfg.MinDF, ErrEmptyVocabulary)
	}

	analyzed := make([][]string, n)
	df := make(map[string]int)
	total := make(map[string]int)
	for i, doc := range docs {
		terms := Analyze(doc, cfg.NGramMax, cfg.StopWords)
		analyzed[i] = terms
		seen := make(map[string]bool, len(terms))
		for _, t := range terms {
			total[t]++
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	var vocab []string
	for term, count := range df {
		if count >= cfg.MinDF && float64(count) <= maxDocCount {
			vocab = append(vocab, term)
		}
	}
	if len(vocab) == 0 {
		return nil, fmt.Errorf("building term matrix: no terms remain after document-frequency filtering of %d documents: %w",
			n, ErrEmptyVocabulary)
	}

	if cfg.MaxFeatures > 0 && len(vocab) > cfg.MaxFeatures {
		sort.Slice(vocab, func(i, j int) bool {
			if total[vocab[i]] != total[vocab[j]] {
				return total[vocab[i]] > total[vocab[j]]
			}
			return vocab[i] < vocab[j]
		})
		vocab = vocab[:cfg.MaxFeatures]
	}
	sort.Strings(vocab)

	index := make(map[string]int, len(vocab))
	for i, term := range vocab {
		index[term] = i
	}

	// nlp works on term x document matrices.
	counts := mat.NewDense(len(vocab), n, nil)
	for d, terms := range analyzed {
		for _, t := range terms {
			if row, ok := index[t]; ok {
				counts.Set(row, d, counts.At(row, d)+1)
			}
		}
	}

	idf := nlp.NewTfidfTransformer()
	weighted, err := idf.FitTransform(counts)
	if err != nil {
		return nil, fmt.Errorf("weighting term matrix: %w", err)
	}

	weights := mat.NewDense(n, len(vocab), nil)
	for d := 0; d < n; d++ {
		row := weights.RawRowView(d)
		for t := range vocab {
			row[t] = weighted.At(t, d)
		}
		normalize(row)
	}

	return &TermMatrix{
		cfg:     cfg,
		vocab:   vocab,
		index:   index,
		weights: weights,
		idf:     idf,
	}, nil
}

// Vocabulary returns the fitted terms in column order.
func (m *TermMatrix) Vocabulary() []string { return m.vocab }

// Weights returns the document-term matrix.
func (m *TermMatrix) Weights() *mat.Dense { return m.weights }

// Docs returns the number of documents the matrix was fitted on.
func (m *TermMatrix) Docs() int {
	r, _ := m.weights.Dims()
	return r
}

// Vector returns the weight row of document i. The slice aliases the matrix.
func (m *TermMatrix) Vector(i int) []float64 {
	return m.weights.RawRowView(i)
}

// Transform vectorizes text under the fitted vocabulary and IDF weights.
// Terms outside the vocabulary are ignored; text with no known terms
// yields a zero vector.
func (m *TermMatrix) Transform(text string) ([]float64, error) {
	vec := make([]float64, len(m.vocab))
	counts := mat.NewDense(len(m.vocab), 1, nil)
	known := 0
	for _, t := range Analyze(text, m.cfg.NGramMax, m.cfg.StopWords) {
		if row, ok := m.index[t]; ok {
			counts.Set(row, 0, counts.At(row, 0)+1)
			known++
		}
	}
	if known == 0 {
		return vec, nil
	}

	weighted, err := m.idf.Transform(counts)
	if err != nil {
		return nil, fmt.Errorf("weighting text: %w", err)
	}
	for t := range vec {
		vec[t] = weighted.At(t, 0)
	}
	normalize(vec)
	return vec, nil
}

func normalize(v []float64) {
	if norm := floats.Norm(v, 2); norm > 0 {
		floats.Scale(1/norm, v)
	}
}
