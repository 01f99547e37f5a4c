package gallery

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Video is one gallery entry, curated or generated. Generated entries carry
// their payload inline in DataURI; curated entries reference a static URL.
type Video struct {
	ID          string
	Title       string
	Description string
	URL         string
	DataURI     string
}

// SourceURI returns the playable reference, preferring the embedded payload.
func (v Video) SourceURI() string {
	if v.DataURI != "" {
		return v.DataURI
	}
	return v.URL
}

// Matches reports whether the video survives the search filter:
// case-insensitive substring match on title OR description.
func (v Video) Matches(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(v.Title), query) ||
		strings.Contains(strings.ToLower(v.Description), query)
}

// TruncateLabel shortens s to max grapheme clusters for card labels.
// Counting clusters rather than bytes keeps emoji and combining marks
// intact.
func TruncateLabel(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if uniseg.GraphemeClusterCount(s) <= max {
		return s
	}
	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	count := 0
	for g.Next() && count < max {
		b.WriteString(g.Str())
		count++
	}
	return strings.TrimSpace(b.String()) + "…"
}
