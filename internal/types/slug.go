package types

import (
	"regexp"
	"strings"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

const maxSlugLength = 60

// Slugify lower cases s and joins its alphanumeric runs with dashes
func Slugify(s string) string {
	slug := strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	return slug
}

// SlugWithSuffix appends a short random suffix to slug, used when slug is taken
func SlugWithSuffix(slug string) string {
	suffix := strings.ToLower(GenerateShortIDWithPrefix(""))
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	if slug == "" {
		return suffix
	}
	return slug + "-" + suffix
}
