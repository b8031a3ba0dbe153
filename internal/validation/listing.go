package validation

import (
	"fmt"
	"strings"
)

const (
	maxListingTitleLen = 120
	maxListingTagCount = 10
	maxListingTagLen   = 32
)

// ListingInput carries the user-supplied fields of a Skill or SkillRequest.
type ListingInput struct {
	Title          string
	Description    string
	Category       string
	SkillLevel     string
	TimeCommitment string
	Tags           []string
}

// ValidateListing checks required listing fields and normalizes tags
// (trimmed, lowercased, de-duplicated). Tag order is not significant.
func ValidateListing(in *ListingInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if len(in.Title) > maxListingTitleLen {
		return fmt.Errorf("title must not exceed %d characters", maxListingTitleLen)
	}
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("description is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return fmt.Errorf("category is required")
	}
	if strings.TrimSpace(in.SkillLevel) == "" {
		return fmt.Errorf("skill level is required")
	}
	if strings.TrimSpace(in.TimeCommitment) == "" {
		return fmt.Errorf("time commitment is required")
	}

	normalized, err := NormalizeTags(in.Tags)
	if err != nil {
		return err
	}
	in.Tags = normalized

	return nil
}

// ListingUpdate carries a partial listing update. Nil fields keep their
// stored value; a non-nil Tags replaces the whole tag set.
type ListingUpdate struct {
	Title          *string
	Description    *string
	Category       *string
	SkillLevel     *string
	TimeCommitment *string
	Tags           *[]string
}

// Apply overlays the supplied fields onto in and validates the merged result.
func (u *ListingUpdate) Apply(in *ListingInput) error {
	if u.Title != nil {
		in.Title = *u.Title
	}
	if u.Description != nil {
		in.Description = *u.Description
	}
	if u.Category != nil {
		in.Category = *u.Category
	}
	if u.SkillLevel != nil {
		in.SkillLevel = *u.SkillLevel
	}
	if u.TimeCommitment != nil {
		in.TimeCommitment = *u.TimeCommitment
	}
	if u.Tags != nil {
		in.Tags = *u.Tags
	}
	return ValidateListing(in)
}

// NormalizeTags trims, lowercases and de-duplicates tags.
func NormalizeTags(tags []string) ([]string, error) {
	if len(tags) > maxListingTagCount {
		return nil, fmt.Errorf("at most %d tags are allowed", maxListingTagCount)
	}

	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" {
			continue
		}
		if len(t) > maxListingTagLen {
			return nil, fmt.Errorf("tag %q exceeds %d characters", t, maxListingTagLen)
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}
