// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package project turns papers into the text and numeric representations
// the clustering strategies consume: a single text blob per paper, a
// TF-IDF term matrix for the vector-space strategies, and cleaned token
// lists for the topic model.
package project

import (
	"errors"
	"strings"

	"github.com/pdiddy/paper-clusters/pkg/types"
)

// ErrEmptyVocabulary is returned when document-frequency filtering leaves
// no terms to build a representation from. Small or near-duplicate
// corpora trigger it.
var ErrEmptyVocabulary = errors.New("empty vocabulary")

// TextBlob returns the text a paper is clustered on: the title, then the
// keywords joined with spaces, then the abstract, separated by single
// spaces. All parts are weighted uniformly.
func TextBlob(p types.Paper) string {
	return p.Title + " " + strings.Join(p.Keywords, " ") + " " + p.Abstract
}

// TextBlobs projects every paper in corpus order.
func TextBlobs(papers []types.Paper) []string {
	docs := make([]string, len(papers))
	for i, p := range papers {
		docs[i] = TextBlob(p)
	}
	return docs
}
