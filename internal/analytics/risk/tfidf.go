// Package risk implements the supervised deadline-risk model: a TF-IDF
// bigram text block concatenated with the scaled numeric feature contract,
// fed to an L2-regularized logistic regression with class-balanced weights.
// Below the minimum labeled-row gate, a closed-form heuristic keeps scoring
// available at reduced fidelity.
package risk

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// maxVocabulary caps the TF-IDF vocabulary; terms are kept by collection
// frequency, ties broken alphabetically.
const maxVocabulary = 500

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_][\p{L}\p{N}_]+`)

// SparseVec is a sparse feature row: column index → value.
type SparseVec map[int]float64

// Vectorizer is a fitted TF-IDF transform over unigrams and bigrams.
type Vectorizer struct {
	Vocab map[string]int
	IDF   []float64
}

// tokenize lowercases text and extracts word tokens of at least two runes,
// then appends adjacent-pair bigrams.
func tokenize(text string) []string {
	words := tokenPattern.FindAllString(strings.ToLower(text), -1)
	terms := make([]string, 0, len(words)*2)
	terms = append(terms, words...)
	for i := 0; i+1 < len(words); i++ {
		terms = append(terms, words[i]+" "+words[i+1])
	}
	return terms
}

// FitVectorizer learns the capped vocabulary and smoothed IDF weights from
// the given corpus.
func FitVectorizer(corpus []string) *Vectorizer {
	counts := make(map[string]int)
	docFreq := make(map[string]int)
	for _, text := range corpus {
		terms := tokenize(text)
		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			counts[t]++
			seen[t] = struct{}{}
		}
		for t := range seen {
			docFreq[t]++
		}
	}

	type termCount struct {
		term  string
		count int
	}
	all := make([]termCount, 0, len(counts))
	for t, c := range counts {
		all = append(all, termCount{t, c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].term < all[j].term
	})
	if len(all) > maxVocabulary {
		all = all[:maxVocabulary]
	}
	// Stable column order: alphabetical over the kept terms.
	sort.Slice(all, func(i, j int) bool { return all[i].term < all[j].term })

	v := &Vectorizer{
		Vocab: make(map[string]int, len(all)),
		IDF:   make([]float64, len(all)),
	}
	n := float64(len(corpus))
	for i, tc := range all {
		v.Vocab[tc.term] = i
		df := float64(docFreq[tc.term])
		v.IDF[i] = math.Log((1+n)/(1+df)) + 1
	}
	return v
}

// Size returns the vocabulary size.
func (v *Vectorizer) Size() int { return len(v.Vocab) }

// Transform maps one text to its L2-normalized TF-IDF row.
func (v *Vectorizer) Transform(text string) SparseVec {
	row := make(SparseVec)
	for _, t := range tokenize(text) {
		if j, ok := v.Vocab[t]; ok {
			row[j] += v.IDF[j]
		}
	}
	var norm float64
	for _, val := range row {
		norm += val * val
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for j, val := range row {
			row[j] = val / norm
		}
	}
	return row
}

// TransformAll maps a corpus to TF-IDF rows.
func (v *Vectorizer) TransformAll(corpus []string) []SparseVec {
	out := make([]SparseVec, len(corpus))
	for i, text := range corpus {
		out[i] = v.Transform(text)
	}
	return out
}
