// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// ContentBased scores products by TF-IDF similarity of their metadata to the
// products the user interacted with.
//
// Each product is the document "category brand price:<price>". Tokens are
// lowercase alphanumeric runs of at least two characters. The score of a
// product is its mean cosine similarity to the user's interacted products.
type ContentBased struct {
	mu       sync.Mutex
	universe *recommend.Universe
	vectors  []map[string]float64
}

// NewContentBased creates a content scorer.
func NewContentBased() *ContentBased {
	return &ContentBased{}
}

// Strategy returns the provenance label.
func (c *ContentBased) Strategy() recommend.Strategy {
	return recommend.StrategyContent
}

// Score computes the user's content similarity vector. A user without
// interactions fails with ErrUnknownUser.
func (c *ContentBased) Score(ctx context.Context, snap *recommend.Snapshot, userID int) recommend.Result {
	history := snap.UserInteractions(userID)
	if len(history) == 0 {
		return recommend.Fail(fmt.Errorf("%w: %d has no interactions", recommend.ErrUnknownUser, userID))
	}

	vectors := c.tfidf(snap)

	seen := make([]int, 0, len(history))
	dedup := make(map[int]struct{}, len(history))
	for _, in := range history {
		if _, dup := dedup[in.ProductID]; dup {
			continue
		}
		dedup[in.ProductID] = struct{}{}
		if i, ok := snap.Universe.Index(in.ProductID); ok {
			seen = append(seen, i)
		}
	}
	if len(seen) == 0 {
		return recommend.Ok(recommend.NewScoreVector(snap.Universe))
	}

	v := recommend.NewScoreVector(snap.Universe)
	for i := 0; i < v.Len(); i++ {
		if i%256 == 0 && ContextCancelled(ctx) {
			return recommend.Fail(ctx.Err())
		}
		var sum float64
		for _, s := range seen {
			sum += dotSparse(vectors[i], vectors[s])
		}
		v.SetAt(i, sum/float64(len(seen)))
	}

	return finish(v)
}

// tfidf returns the L2-normalized TF-IDF vectors of the snapshot's products
// in universe order. Vectors are cached per universe.
func (c *ContentBased) tfidf(snap *recommend.Snapshot) []map[string]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.universe == snap.Universe && c.vectors != nil {
		return c.vectors
	}

	n := snap.Universe.Len()
	docs := make([]map[string]float64, n)
	df := make(map[string]int)
	for i := 0; i < n; i++ {
		p, _ := snap.Product(snap.Universe.ID(i))
		tf := make(map[string]float64)
		for _, tok := range tokenize(productDocument(p)) {
			tf[tok]++
		}
		for tok := range tf {
			df[tok]++
		}
		docs[i] = tf
	}

	for _, tf := range docs {
		var norm float64
		for tok, count := range tf {
			idf := math.Log(float64(1+n)/float64(1+df[tok])) + 1
			w := count * idf
			tf[tok] = w
			norm += w * w
		}
		if norm = math.Sqrt(norm); norm > 0 {
			for tok := range tf {
				tf[tok] /= norm
			}
		}
	}

	c.universe = snap.Universe
	c.vectors = docs
	return docs
}

func productDocument(p *recommend.Product) string {
	if p == nil {
		return ""
	}
	return p.Category + " " + p.Brand + " price:" + strconv.FormatFloat(p.Price, 'f', -1, 64)
}

// tokenize lowercases s and splits it into alphanumeric runs of at least
// two characters.
func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			out = append(out, f)
		}
	}
	return out
}

func dotSparse(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for tok, wa := range a {
		dot += wa * b[tok]
	}
	return dot
}
