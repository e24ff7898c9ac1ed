// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package project

import (
	"regexp"
	"strings"
)

// wordPattern matches runs of two or more word characters.
var wordPattern = regexp.MustCompile(`\w\w+`)

// nonAlphaPattern matches everything the topic model discards.
var nonAlphaPattern = regexp.MustCompile(`[^a-zA-Z\s]`)

// Analyze tokenizes text for the vector-space strategies. Text is
// lowercased, split into word tokens of length >= 2, optionally stripped
// of English stop words, and expanded into n-grams of length 1..ngramMax
// built from adjacent surviving tokens.
func Analyze(text string, ngramMax int, stopWords bool) []string {
	tokens := wordPattern.FindAllString(strings.ToLower(text), -1)
	if stopWords {
		kept := tokens[:0]
		for _, tok := range tokens {
			if !IsStopWord(tok) {
				kept = append(kept, tok)
			}
		}
		tokens = kept
	}
	return ngrams(tokens, ngramMax)
}

func ngrams(tokens []string, maxN int) []string {
	if maxN <= 1 {
		return tokens
	}
	terms := make([]string, 0, len(tokens)*maxN)
	terms = append(terms, tokens...)
	for n := 2; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

// CleanTokens prepares text for the topic model: lowercase, drop every
// character that is not a letter or whitespace, split on whitespace, and
// discard tokens of two characters or fewer.
func CleanTokens(text string) []string {
	cleaned := nonAlphaPattern.ReplaceAllString(strings.ToLower(text), "")
	fields := strings.Fields(cleaned)
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) > 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
