// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cluster

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/james-bowman/nlp"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pdiddy/paper-clusters/internal/project"
	"github.com/pdiddy/paper-clusters/pkg/types"
)

const (
	minPasses         = 10
	defaultIterations = 50
	// gammaThreshold stops the per-document updates once the mean absolute
	// change of gamma falls below it.
	gammaThreshold = 1e-3
	// alphaSteps is the number of fixed-point steps taken after each pass.
	alphaSteps = 5
	minAlpha   = 1e-5
	// phiFloor keeps normalizers away from zero.
	phiFloor = 1e-100
)

// TopicModel is a trained topic model over a corpus.
type TopicModel struct {
	// Vocabulary lists the modelled tokens in column order.
	Vocabulary []string

	// Topics holds one row per topic: the topic's distribution over the
	// vocabulary.
	Topics *mat.Dense

	// DocTopics holds one row per document: its distribution over topics.
	// Rows sum to one.
	DocTopics *mat.Dense

	// Alpha is the document-topic prior after tuning.
	Alpha []float64
}

// Assignment returns the most probable topic of document d. Ties go to
// the lowest topic index.
func (m *TopicModel) Assignment(d int) int {
	return floats.MaxIdx(m.DocTopics.RawRowView(d))
}

// Topic clusters papers with latent Dirichlet allocation trained by
// batch variational Bayes. The document-topic prior is learned from the
// corpus; the topic-word prior is symmetric 1/k.
type Topic struct {
	cfg types.ClusteringConfig
}

// NewTopic returns a topic-model strategy. Passes below 10 are raised to 10.
func NewTopic(cfg types.ClusteringConfig) *Topic {
	if cfg.Topic.Passes < minPasses {
		cfg.Topic.Passes = minPasses
	}
	if cfg.Topic.Iterations <= 0 {
		cfg.Topic.Iterations = defaultIterations
	}
	return &Topic{cfg: cfg}
}

// Method returns MethodLDA.
func (t *Topic) Method() Method { return MethodLDA }

// Name returns the display name.
func (t *Topic) Name() string { return MethodLDA.DisplayName() }

// Cluster fits a k-topic model and assigns each paper to its most
// probable topic.
func (t *Topic) Cluster(ctx context.Context, papers []types.Paper, k int) (Result, error) {
	model, err := t.Fit(ctx, papers, k)
	if err != nil {
		return Result{}, err
	}

	catalog := make([]types.Cluster, k)
	for j := range catalog {
		terms := topTerms(model.Topics.RawRowView(j), model.Vocabulary, descriptorTerms, false)
		catalog[j] = types.Cluster{
			ID:       j,
			Name:     Label(prefixTopic, j, terms),
			TopWords: terms,
		}
	}

	labels := make([]int, len(papers))
	for d := range labels {
		labels[d] = model.Assignment(d)
	}

	return Result{
		Papers:   assign(papers, labels, catalog),
		Clusters: catalog,
	}, nil
}

// Fit trains a k-topic model over papers.
func (t *Topic) Fit(ctx context.Context, papers []types.Paper, k int) (*TopicModel, error) {
	if err := checkInput(papers, k); err != nil {
		return nil, fmt.Errorf("topic clustering: %w", err)
	}

	docs, vocab, err := topicCorpus(project.TextBlobs(papers), t.cfg.Topic)
	if err != nil {
		return nil, fmt.Errorf("topic clustering: %w", err)
	}

	m := newVariationalLDA(k, len(vocab), t.cfg.Seed)
	for pass := 0; pass < t.cfg.Topic.Passes; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("topic clustering: pass %d: %w", pass+1, err)
		}
		gammas, sstats := m.expectation(docs, t.cfg.Topic.Iterations)
		m.maximization(sstats)
		m.updateAlpha(gammas)
	}

	gammas, _ := m.expectation(docs, t.cfg.Topic.Iterations)
	for d := range docs {
		row := gammas.RawRowView(d)
		floats.Scale(1/floats.Sum(row), row)
	}

	topics := mat.DenseCopyOf(m.lambda)
	for j := 0; j < k; j++ {
		row := topics.RawRowView(j)
		floats.Scale(1/floats.Sum(row), row)
	}

	return &TopicModel{
		Vocabulary: vocab,
		Topics:     topics,
		DocTopics:  gammas,
		Alpha:      append([]float64(nil), m.alpha...),
	}, nil
}

// bagOfWords is a sparse document: token ids with their counts.
type bagOfWords struct {
	ids    []int
	counts []float64
}

// topicCorpus cleans each document, drops tokens outside the document
// frequency bounds, and counts the survivors. Documents keep their
// position even when no token survives.
func topicCorpus(texts []string, cfg types.TopicConfig) ([]bagOfWords, []string, error) {
	n := len(texts)
	minDF := max(cfg.MinDF, 1)
	maxDF := cfg.MaxDF
	if maxDF <= 0 || maxDF > 1 {
		maxDF = 1
	}
	maxDocCount := maxDF * float64(n)
	if maxDocCount < float64(minDF) {
		return nil, nil, fmt.Errorf("max_df %.2f of %d documents is fewer than min_df %d: %w",
			maxDF, n, minDF, project.ErrEmptyVocabulary)
	}

	tokens := make([][]string, n)
	df := make(map[string]int)
	for d, text := range texts {
		tokens[d] = project.CleanTokens(text)
		seen := make(map[string]bool)
		for _, tok := range tokens[d] {
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}

	kept := make([]string, n)
	nonEmpty := false
	for d, toks := range tokens {
		survivors := make([]string, 0, len(toks))
		for _, tok := range toks {
			if c := df[tok]; c >= minDF && float64(c) <= maxDocCount {
				survivors = append(survivors, tok)
			}
		}
		nonEmpty = nonEmpty || len(survivors) > 0
		kept[d] = strings.Join(survivors, " ")
	}
	if !nonEmpty {
		return nil, nil, fmt.Errorf("no tokens remain after document-frequency filtering of %d documents: %w",
			n, project.ErrEmptyVocabulary)
	}

	vectoriser := nlp.NewCountVectoriser()
	counts, err := vectoriser.FitTransform(kept...)
	if err != nil {
		return nil, nil, fmt.Errorf("counting tokens: %w", err)
	}

	vocab := make([]string, len(vectoriser.Vocabulary))
	for term, i := range vectoriser.Vocabulary {
		vocab[i] = term
	}

	docs := make([]bagOfWords, n)
	for d := range docs {
		for w := range vocab {
			if c := counts.At(w, d); c > 0 {
				docs[d].ids = append(docs[d].ids, w)
				docs[d].counts = append(docs[d].counts, c)
			}
		}
	}
	return docs, vocab, nil
}

// variationalLDA holds the variational parameters of the topic model.
type variationalLDA struct {
	k, v   int
	alpha  []float64
	eta    float64
	lambda *mat.Dense
	draw   distuv.Gamma
}

func newVariationalLDA(k, v int, seed uint64) *variationalLDA {
	draw := distuv.Gamma{Alpha: 100, Beta: 100, Src: rand.NewSource(seed)}
	lambda := mat.NewDense(k, v, nil)
	for j := 0; j < k; j++ {
		row := lambda.RawRowView(j)
		for w := range row {
			row[w] = draw.Rand()
		}
	}

	alpha := make([]float64, k)
	for j := range alpha {
		alpha[j] = 1 / float64(k)
	}

	return &variationalLDA{
		k:      k,
		v:      v,
		alpha:  alpha,
		eta:    1 / float64(k),
		lambda: lambda,
		draw:   draw,
	}
}

// expectation fits each document's topic proportions under the current
// topics and returns the per-document gammas with the sufficient
// statistics for the topic update.
func (m *variationalLDA) expectation(docs []bagOfWords, iterations int) (*mat.Dense, *mat.Dense) {
	expElogBeta := mat.NewDense(m.k, m.v, nil)
	for j := 0; j < m.k; j++ {
		dirichletExpectation(m.lambda.RawRowView(j), expElogBeta.RawRowView(j))
	}

	gammas := mat.NewDense(len(docs), m.k, nil)
	sstats := mat.NewDense(m.k, m.v, nil)
	expElogTheta := make([]float64, m.k)
	last := make([]float64, m.k)

	for d, doc := range docs {
		gamma := gammas.RawRowView(d)
		for j := range gamma {
			gamma[j] = m.draw.Rand()
		}
		phiNorm := make([]float64, len(doc.ids))

		for it := 0; it < iterations; it++ {
			copy(last, gamma)
			dirichletExpectation(gamma, expElogTheta)
			normalizers(doc, expElogTheta, expElogBeta, phiNorm)
			for j := range gamma {
				var s float64
				for w, id := range doc.ids {
					s += doc.counts[w] * expElogBeta.At(j, id) / phiNorm[w]
				}
				gamma[j] = m.alpha[j] + expElogTheta[j]*s
			}
			if meanAbsDiff(gamma, last) < gammaThreshold {
				break
			}
		}

		dirichletExpectation(gamma, expElogTheta)
		normalizers(doc, expElogTheta, expElogBeta, phiNorm)
		for j := 0; j < m.k; j++ {
			row := sstats.RawRowView(j)
			for w, id := range doc.ids {
				row[id] += expElogTheta[j] * doc.counts[w] * expElogBeta.At(j, id) / phiNorm[w]
			}
		}
	}
	return gammas, sstats
}

func (m *variationalLDA) maximization(sstats *mat.Dense) {
	for j := 0; j < m.k; j++ {
		row := m.lambda.RawRowView(j)
		for w, s := range sstats.RawRowView(j) {
			row[w] = m.eta + s
		}
	}
}

// updateAlpha tunes the asymmetric document-topic prior with Minka's
// fixed-point iteration, treating gamma minus alpha as expected topic
// counts per document.
func (m *variationalLDA) updateAlpha(gammas *mat.Dense) {
	n, _ := gammas.Dims()
	counts := mat.NewDense(n, m.k, nil)
	lengths := make([]float64, n)
	for d := 0; d < n; d++ {
		row := counts.RawRowView(d)
		for j, g := range gammas.RawRowView(d) {
			row[j] = math.Max(g-m.alpha[j], 0)
		}
		lengths[d] = floats.Sum(row)
	}

	num := make([]float64, m.k)
	for step := 0; step < alphaSteps; step++ {
		alphaSum := floats.Sum(m.alpha)
		var denom float64
		for j := range num {
			num[j] = 0
		}
		for d := 0; d < n; d++ {
			for j, c := range counts.RawRowView(d) {
				num[j] += mathext.Digamma(c+m.alpha[j]) - mathext.Digamma(m.alpha[j])
			}
			denom += mathext.Digamma(lengths[d]+alphaSum) - mathext.Digamma(alphaSum)
		}
		if denom <= 0 {
			return
		}
		for j := range m.alpha {
			m.alpha[j] = math.Max(m.alpha[j]*num[j]/denom, minAlpha)
		}
	}
}

// dirichletExpectation writes exp(E[log x]) for x ~ Dirichlet(params).
func dirichletExpectation(params, dst []float64) {
	psiSum := mathext.Digamma(floats.Sum(params))
	for i, p := range params {
		dst[i] = math.Exp(mathext.Digamma(p) - psiSum)
	}
}

func normalizers(doc bagOfWords, expElogTheta []float64, expElogBeta *mat.Dense, dst []float64) {
	for w, id := range doc.ids {
		var s float64
		for j, t := range expElogTheta {
			s += t * expElogBeta.At(j, id)
		}
		dst[w] = s + phiFloor
	}
}

func meanAbsDiff(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += math.Abs(a[i] - b[i])
	}
	return s / float64(len(a))
}
