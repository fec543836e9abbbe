package entity

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxTitleLength is the maximum number of characters in a title.
	MaxTitleLength = 500
	// MaxSlugLength is the maximum number of characters in a slug.
	MaxSlugLength = 200
)

func validateTitle(title string) (string, error) {
	title, err := validateRequired("title", title)
	if err != nil {
		return "", err
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", &ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("must not exceed %d characters", MaxTitleLength),
		}
	}
	return title, nil
}

// validateRequired trims v and rejects it when nothing is left.
func validateRequired(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", &ValidationError{Field: field, Message: "is required"}
	}
	return v, nil
}

// NormalizeSlug validates a user supplied slug and returns it lowercased.
// A slug may only contain letters, digits, hyphens and underscores and must
// contain at least one letter or digit.
func NormalizeSlug(slug string) (string, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", &ValidationError{Field: "slug", Message: "is required"}
	}
	if utf8.RuneCountInString(slug) > MaxSlugLength {
		return "", &ValidationError{
			Field:   "slug",
			Message: fmt.Sprintf("must not exceed %d characters", MaxSlugLength),
		}
	}

	alnum := 0
	for _, r := range slug {
		switch {
		case r == '-' || r == '_':
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			alnum++
		default:
			return "", &ValidationError{
				Field:   "slug",
				Message: "must contain only letters, digits, hyphens and underscores",
			}
		}
	}
	if alnum == 0 {
		return "", &ValidationError{
			Field:   "slug",
			Message: "must contain at least one letter or digit",
		}
	}
	return strings.ToLower(slug), nil
}

// NormalizeTags trims and lowercases tags, drops empty ones and removes
// duplicates. The result is sorted so that equal sets compare equal.
// NormalizeTags is idempotent.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// SplitTags parses a comma separated tag list as typed into the admin form.
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	return NormalizeTags(strings.Split(raw, ","))
}
