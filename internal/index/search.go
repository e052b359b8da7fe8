// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jaat-ai/knowledge-engine/internal/vectormath"
	"github.com/jaat-ai/knowledge-engine/pkg/types"
)

// SearchFilters narrow a search to items matching every set field.
type SearchFilters struct {
	// Type keeps only items of this type.
	Type types.KnowledgeItemType

	// MinTrustScore keeps only items at or above this trust score.
	MinTrustScore *float64

	// Verified filters on fact verification outcome.
	Verified *bool

	// From and To bound the item creation time, inclusive.
	From time.Time
	To   time.Time
}

// SearchOptions control a search. The zero value searches with defaults.
type SearchOptions struct {
	// Limit caps returned results; 0 means the configured MaxResults.
	Limit int

	// Offset skips that many results for pagination.
	Offset int

	Filters SearchFilters

	// Categories keeps items whose category matches any entry.
	Categories []string

	// Tags keeps items sharing at least one tag with the list.
	Tags []string

	// MinScore overrides the configured relevance cutoff; 0 keeps the
	// configured value.
	MinScore float64

	// UseSemanticSearch forces the scoring mode. Nil follows the
	// configuration; requesting semantic while the feature is disabled
	// falls back to keyword scoring.
	UseSemanticSearch *bool

	// BoostRecent applies the recency boost. Nil means on.
	BoostRecent *bool
}

// SearchResult is one scored hit.
type SearchResult struct {
	Item  types.KnowledgeItem `json:"item" yaml:"item"`
	Score float64             `json:"score" yaml:"score"`
}

// SearchResponse is a page of results plus the totals before pagination.
type SearchResponse struct {
	Query        string         `json:"query" yaml:"query"`
	Results      []SearchResult `json:"results" yaml:"results"`
	TotalResults int            `json:"total_results" yaml:"total_results"`
	Semantic     bool           `json:"semantic" yaml:"semantic"`
}

// Search scores every stored item against the query, filters, applies
// the relevance cutoff, boosts recently updated survivors, sorts by
// score descending with insertion order breaking ties, and returns the
// requested page. Scoring is semantic (cosine over embeddings) when
// enabled, keyword otherwise.
func (e *Engine) Search(ctx context.Context, query string, opts SearchOptions) (SearchResponse, error) {
	if err := e.ready(); err != nil {
		return SearchResponse{}, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResponse{}, fmt.Errorf("search query required: %w", types.ErrInvalidArgument)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	semantic := e.cfg.EnableSemanticSearch
	if opts.UseSemanticSearch != nil {
		semantic = *opts.UseSemanticSearch && e.cfg.EnableSemanticSearch
	}

	var queryVec []float64
	if semantic {
		var err error
		queryVec, err = e.embedder.Embed(ctx, query)
		if err != nil {
			return SearchResponse{}, fmt.Errorf("embedding query: %w", err)
		}
	}

	items, err := e.items.All(ctx)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("listing items: %w", err)
	}

	minScore := opts.MinScore
	if minScore == 0 {
		minScore = e.cfg.MinRelevanceScore
	}
	boost := opts.BoostRecent == nil || *opts.BoostRecent
	now := e.now()

	var results []SearchResult
	for _, item := range items {
		if !matchesFilters(item, opts) {
			continue
		}

		var score float64
		if semantic {
			vec := e.vectorFor(item.ID)
			if vec == nil {
				continue
			}
			score, err = vectormath.CosineSimilarity(queryVec, vec)
			if err != nil {
				continue
			}
		} else {
			score = keywordScore(item, query)
		}
		if score < minScore {
			continue
		}
		if boost {
			score *= 1 + recencyBoost(item.Metadata.UpdatedAt, now)
		}
		results = append(results, SearchResult{Item: item, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	total := len(results)
	limit := opts.Limit
	if limit <= 0 {
		limit = e.cfg.MaxResults
	}
	offset := opts.Offset
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := results[offset:end]

	fmt.Fprintf(e.log, "search %q matched %d of %d items\n", query, total, len(items))
	e.emit(Event{Kind: EventKnowledgeSearched, Query: query, ResultCount: total})

	return SearchResponse{
		Query:        query,
		Results:      page,
		TotalResults: total,
		Semantic:     semantic,
	}, nil
}

func matchesFilters(item types.KnowledgeItem, opts SearchOptions) bool {
	f := opts.Filters
	if f.Type != "" && item.Type != f.Type {
		return false
	}
	if f.MinTrustScore != nil && item.TrustScore < *f.MinTrustScore {
		return false
	}
	if f.Verified != nil {
		verified := item.Verified != nil && item.Verified.Verified
		if verified != *f.Verified {
			return false
		}
	}
	if !f.From.IsZero() && item.Metadata.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && item.Metadata.CreatedAt.After(f.To) {
		return false
	}

	if len(opts.Categories) > 0 {
		found := false
		for _, c := range opts.Categories {
			if strings.EqualFold(item.Category, c) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(opts.Tags) > 0 {
		found := false
		for _, want := range opts.Tags {
			for _, have := range item.Tags {
				if strings.EqualFold(want, have) {
					found = true
					break
				}
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// keyword field weights: a title hit counts three times a content hit,
// a tag hit twice.
const (
	weightTitle   = 3.0
	weightContent = 1.0
	weightTags    = 2.0
)

// keywordScore measures lexical overlap between the query and the item's
// title, content, and tags. Each query term contributes the field weight
// for a substring hit, half of it for a word that merely starts or ends
// with the term. The sum is normalized by twice the term count; hits
// across several fields can push it past 1.
func keywordScore(item types.KnowledgeItem, query string) float64 {
	terms := queryTerms(query)
	if len(terms) == 0 {
		return 0
	}

	title := strings.ToLower(item.Title)
	content := strings.ToLower(item.Content)
	tags := strings.ToLower(strings.Join(item.Tags, " "))

	var score float64
	for _, term := range terms {
		score += fieldScore(title, term) * weightTitle
		score += fieldScore(content, term) * weightContent
		score += fieldScore(tags, term) * weightTags
	}

	return score / (float64(len(terms)) * 2)
}

// queryTerms lowercases and splits the query, dropping single-character
// tokens.
func queryTerms(query string) []string {
	var terms []string
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		if len(tok) > 1 {
			terms = append(terms, tok)
		}
	}
	return terms
}

func fieldScore(field, term string) float64 {
	if field == "" {
		return 0
	}
	if strings.Contains(field, term) {
		return 1
	}
	for _, word := range strings.Fields(field) {
		if strings.HasPrefix(word, term) || strings.HasSuffix(word, term) {
			return 0.5
		}
	}
	return 0
}

// recencyBoost returns up to 0.2 extra relevance for items touched within
// the last 30 days, decaying linearly to zero.
func recencyBoost(updatedAt, now time.Time) float64 {
	if updatedAt.IsZero() {
		return 0
	}
	ageDays := now.Sub(updatedAt).Hours() / 24
	boost := 0.2 - ageDays/30*0.2
	if boost < 0 {
		return 0
	}
	return boost
}
