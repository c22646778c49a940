package community

import (
	"strings"
	"unicode/utf8"

	"github.com/owndesign/owndesign/internal/domain"
	"golang.org/x/text/cases"
)

const (
	bioLimit = 80
	noBio    = "No bio."
)

// Entry is one creator in the directory.
type Entry struct {
	OwnerID string
	Name    string
	Bio     string
	Avatar  string
}

func newEntry(p *domain.Profile) Entry {
	e := Entry{OwnerID: p.OwnerID(), Name: "Unnamed creator", Bio: noBio}
	if p.Name != nil && strings.TrimSpace(*p.Name) != "" {
		e.Name = *p.Name
	}
	if p.About != nil && strings.TrimSpace(*p.About) != "" {
		e.Bio = Truncate(*p.About, bioLimit)
	}
	if p.ProfilePictureURL != nil {
		e.Avatar = *p.ProfilePictureURL
	}
	return e
}

// Truncate shortens s to limit runes, marking the cut with "...".
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}

// Filter keeps the entries whose name contains query, ignoring case. An
// empty query keeps everything.
func Filter(entries []Entry, query string) []Entry {
	query = strings.TrimSpace(query)
	if query == "" {
		return entries
	}
	// A Caser holds state, so each call gets its own.
	fold := cases.Fold()
	needle := fold.String(query)

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(fold.String(e.Name), needle) {
			out = append(out, e)
		}
	}
	return out
}
