// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the knowledge engine:
// knowledge items, sources, verification results, configuration, and the
// error kinds surfaced across package boundaries.
package types

import (
	"strings"
	"time"
)

// KnowledgeItemType categorizes a knowledge item.
type KnowledgeItemType string

const (
	ItemConcept  KnowledgeItemType = "concept"
	ItemEntity   KnowledgeItemType = "entity"
	ItemEvent    KnowledgeItemType = "event"
	ItemFact     KnowledgeItemType = "fact"
	ItemCategory KnowledgeItemType = "category"
)

// Valid reports whether t is one of the recognized item types.
func (t KnowledgeItemType) Valid() bool {
	switch t {
	case ItemConcept, ItemEntity, ItemEvent, ItemFact, ItemCategory:
		return true
	}
	return false
}

// Source records the provenance of a knowledge item.
type Source struct {
	// URL locates the source. Empty for offline or anecdotal sources.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Name is a human-readable source name.
	Name string `json:"name" yaml:"name"`

	// Type describes the source kind (e.g. "article", "book", "website").
	Type string `json:"type" yaml:"type"`

	// RetrievedAt is when the source material was obtained.
	RetrievedAt time.Time `json:"retrieved_at" yaml:"retrieved_at"`

	// Verified reports whether the source has passed verification.
	Verified bool `json:"verified" yaml:"verified"`

	// Authors lists the source's authors, if known.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// PublishedAt is the source's publication time, if known.
	PublishedAt *time.Time `json:"published_at,omitempty" yaml:"published_at,omitempty"`

	// CredibilityScore is a [0,1] credibility estimate. Defaults to 0.5.
	CredibilityScore float64 `json:"credibility_score" yaml:"credibility_score"`

	// VerifiedAt is set when verification last ran.
	VerifiedAt *time.Time `json:"verified_at,omitempty" yaml:"verified_at,omitempty"`

	// Factors breaks down the credibility score after verification.
	Factors *VerificationFactors `json:"verification_factors,omitempty" yaml:"verification_factors,omitempty"`
}

// UnmarshalYAML accepts either a bare string or a structured mapping for a
// source. A bare string becomes the source name, and the URL as well when it
// looks like an http(s) link.
func (s *Source) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err == nil {
		s.Name = name
		if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
			s.URL = name
		}
		return nil
	}

	type plain Source
	var p plain
	if err := unmarshal(&p); err != nil {
		return err
	}
	*s = Source(p)
	return nil
}

// VerificationFactors are the contributing signals behind a source
// credibility score.
type VerificationFactors struct {
	DomainTrust    float64 `json:"domain_trust" yaml:"domain_trust"`
	ContentQuality float64 `json:"content_quality" yaml:"content_quality"`
	References     float64 `json:"references" yaml:"references"`
	Consistency    float64 `json:"consistency" yaml:"consistency"`
}

// SourceVerification is the outcome of verifying a source by URL.
type SourceVerification struct {
	URL              string              `json:"url" yaml:"url"`
	Verified         bool                `json:"verified" yaml:"verified"`
	CredibilityScore float64             `json:"credibility_score" yaml:"credibility_score"`
	VerifiedAt       time.Time           `json:"verified_at" yaml:"verified_at"`
	Factors          VerificationFactors `json:"factors" yaml:"factors"`
}

// FactVerification is the outcome of checking a fact-typed item.
type FactVerification struct {
	// Verified reports whether the check passed.
	Verified bool `json:"verified" yaml:"verified"`

	// Confidence is the checker's confidence in its own result.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Method names the check that produced the result: "source_check",
	// "pattern_match", or "simulated".
	Method string `json:"method" yaml:"method"`

	// Reason explains a failed check. Empty on success.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`

	// VerifiedAt is when the check ran.
	VerifiedAt time.Time `json:"verified_at" yaml:"verified_at"`
}

// ItemMetadata carries bookkeeping fields for a knowledge item.
type ItemMetadata struct {
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`

	// CreatedBy identifies the item's author. Defaults to "system".
	CreatedBy string `json:"created_by" yaml:"created_by"`

	// Extra holds caller-defined annotations. Patch updates merge keys
	// into this map without touching the declared fields above.
	Extra map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// KnowledgeItem is a stored unit of information.
type KnowledgeItem struct {
	// ID uniquely identifies the item. Assigned on add when empty.
	ID string `json:"id" yaml:"id"`

	// Content is the item's text. Required, non-empty.
	Content string `json:"content" yaml:"content"`

	// Title is a short display name. Defaults to "Item <id>".
	Title string `json:"title" yaml:"title"`

	// Type categorizes the item. Defaults to fact.
	Type KnowledgeItemType `json:"type" yaml:"type"`

	// Tags are topic labels used for filtering and graph linking.
	Tags []string `json:"tags" yaml:"tags"`

	// Category is a slash-separated taxonomy path. Defaults to "general".
	Category string `json:"category" yaml:"category"`

	Metadata ItemMetadata `json:"metadata" yaml:"metadata"`

	// Source is the item's provenance, if any.
	Source *Source `json:"source,omitempty" yaml:"source,omitempty"`

	// TrustScore is a [0,1] confidence value. Computed on add unless the
	// caller supplies one.
	TrustScore float64 `json:"trust_score" yaml:"trust_score"`

	// Verified holds the fact verification result for fact-typed items.
	Verified *FactVerification `json:"verified,omitempty" yaml:"verified,omitempty"`
}

// ItemPatch is a partial update to a knowledge item. Nil fields are left
// unchanged; only declared fields can be patched.
type ItemPatch struct {
	Content    *string            `json:"content,omitempty" yaml:"content,omitempty"`
	Title      *string            `json:"title,omitempty" yaml:"title,omitempty"`
	Type       *KnowledgeItemType `json:"type,omitempty" yaml:"type,omitempty"`
	Tags       []string           `json:"tags,omitempty" yaml:"tags,omitempty"`
	Category   *string            `json:"category,omitempty" yaml:"category,omitempty"`
	Source     *Source            `json:"source,omitempty" yaml:"source,omitempty"`
	TrustScore *float64           `json:"trust_score,omitempty" yaml:"trust_score,omitempty"`

	// Metadata keys are merged into the item's Extra map.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}
