package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"guestrsvp/internal/domain"
)

const (
	maxSlugLen       = 200
	maxSlugAttempts  = 50
	fallbackSlugBase = "invitation"
)

// Slugify lowercases s, strips diacritics and joins the remaining ASCII letters and digits with "-".
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if len(slug) > maxSlugLen {
		slug = strings.TrimSuffix(slug[:maxSlugLen], "-")
	}
	if slug == "" {
		return fallbackSlugBase
	}
	return slug
}

// slugCandidate returns base for n == 1 and base-n after that.
func slugCandidate(base string, n int) string {
	if n <= 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}

// createWithUniqueSlug inserts e under the first free slug derived from base. A concurrent insert
// that wins the same slug makes the repository return ErrSlugTaken, and the next suffix is tried.
func createWithUniqueSlug(ctx context.Context, repo domain.EventRepository, e *domain.Event, base string) error {
	n := 1
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		candidate := slugCandidate(base, n)
		exists, err := repo.SlugExists(ctx, candidate)
		if err != nil {
			return fmt.Errorf("check slug: %w", err)
		}
		if exists {
			n++
			continue
		}
		e.Slug = candidate
		err = repo.Create(ctx, e)
		if errors.Is(err, domain.ErrSlugTaken) {
			n++
			continue
		}
		if err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		return nil
	}
	return fmt.Errorf("create event: no free slug for %q after %d attempts", base, maxSlugAttempts)
}
