package dedup

import (
	"sort"

	"github.com/turtacn/CaseTrack-Analytics/internal/domain/document"
	"github.com/turtacn/CaseTrack-Analytics/pkg/errors"
)

// Params controls one near-duplicate scan. Weights are renormalized to sum
// to one; non-positive totals fail validation.
type Params struct {
	NameWeight float64
	SizeWeight float64
	Threshold  float64
	MaxPairs   int
}

// Normalize validates the parameters and rescales the weights in place.
func (p *Params) Normalize() error {
	if p.NameWeight < 0 || p.SizeWeight < 0 {
		return errors.InvalidParam("similarity weights must be non-negative")
	}
	total := p.NameWeight + p.SizeWeight
	if total <= 0 {
		return errors.InvalidParam("at least one similarity weight must be positive")
	}
	p.NameWeight /= total
	p.SizeWeight /= total
	if p.Threshold < 0 || p.Threshold > 1 {
		return errors.InvalidParam("threshold must be in [0,1], got %g", p.Threshold)
	}
	if p.MaxPairs < 1 {
		return errors.InvalidParam("max_pairs must be positive, got %d", p.MaxPairs)
	}
	return nil
}

// Pair is one accepted near-duplicate candidate.
type Pair struct {
	A, B     document.Document
	NameSim  float64
	SizeSim  float64
	Score    float64
	SameCase bool
}

// FindPairs scans all document pairs in input order, keeps those whose
// weighted score meets the threshold, and stops collecting once MaxPairs
// are accepted. Accepted pairs are returned sorted by descending score.
func FindPairs(docs []document.Document, p Params) ([]Pair, error) {
	if err := p.Normalize(); err != nil {
		return nil, err
	}

	pairs := make([]Pair, 0)
scan:
	for i := 0; i < len(docs); i++ {
		for j := i + 1; j < len(docs); j++ {
			a, b := docs[i], docs[j]
			nameSim := NameSimilarity(a.Filename, b.Filename)
			sizeSim := SizeSimilarity(a.SizeMB, b.SizeMB)
			score := p.NameWeight*nameSim + p.SizeWeight*sizeSim
			if score < p.Threshold {
				continue
			}
			pairs = append(pairs, Pair{
				A:        a,
				B:        b,
				NameSim:  nameSim,
				SizeSim:  sizeSim,
				Score:    score,
				SameCase: sameCase(a, b),
			})
			if len(pairs) >= p.MaxPairs {
				break scan
			}
		}
	}

	sort.SliceStable(pairs, func(x, y int) bool { return pairs[x].Score > pairs[y].Score })
	return pairs, nil
}

func sameCase(a, b document.Document) bool {
	return a.CaseID != nil && b.CaseID != nil && *a.CaseID == *b.CaseID
}
