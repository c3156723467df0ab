package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for VocabularyItem
var (
	ErrEmptyVocabularyID = errors.New("vocabulary item ID cannot be empty")
	ErrEmptyHeadword     = errors.New("vocabulary headword cannot be empty")
	ErrEmptyGloss        = errors.New("vocabulary gloss cannot be empty")
)

// VocabularyItem is a catalog entry: a target-language headword and its
// native-language gloss. Items are created on import or manual add and are
// never deleted automatically; an update is a full replace.
type VocabularyItem struct {
	ID       uuid.UUID `json:"id"`
	Headword string    `json:"headword"` // Target-language text
	Gloss    string    `json:"gloss"`    // Native-language meaning
	Tags     []string  `json:"tags"`
	AddedAt  time.Time `json:"added_at"`
}

// NewVocabularyItem creates a catalog item with a fresh ID.
func NewVocabularyItem(headword, gloss string, tags []string) (*VocabularyItem, error) {
	item := &VocabularyItem{
		ID:       uuid.New(),
		Headword: strings.TrimSpace(headword),
		Gloss:    strings.TrimSpace(gloss),
		Tags:     normalizeTags(tags),
		AddedAt:  time.Now().UTC(),
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the VocabularyItem has valid data.
func (v *VocabularyItem) Validate() error {
	if v.ID == uuid.Nil {
		return ErrEmptyVocabularyID
	}

	if v.Headword == "" {
		return ErrEmptyHeadword
	}

	if v.Gloss == "" {
		return ErrEmptyGloss
	}

	return nil
}

// HasTag reports whether the item carries the given tag (case-insensitive).
func (v *VocabularyItem) HasTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range v.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// normalizeTags lowercases, trims, and de-duplicates tags while keeping
// their first-seen order.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
