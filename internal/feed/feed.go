// Package feed normalizes heterogeneous article feeds (arXiv, MDPI,
// OpenAlex) into canonical article records and filters them by publish
// date and keyword before enrichment.
package feed

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"paperbot/internal/keyword"
)

// Article is the canonical, provider-independent record. Immutable once
// extracted.
type Article struct {
	Title          string
	Link           string
	Authors        string
	RawDescription string
}

// Entry is one raw feed item before provider-specific extraction. Only
// the fields a given provider fills are meaningful.
type Entry struct {
	Title       string
	Link        string
	AuthorsHTML string
	Description string
	Published   time.Time        // per-entry timestamp (MDPI, OpenAlex)
	FeedUpdated time.Time        // feed-level timestamp (arXiv)
	Inverted    map[string][]int // abstract inverted index (OpenAlex)
}

// Publisher adapts one feed family.
type Publisher interface {
	Name() string
	Fetch(ctx context.Context) ([]Entry, error)
	// PublishDate normalizes the provider's timestamps to a UTC calendar
	// date (midnight).
	PublishDate(e Entry) time.Time
	ParseTitle(raw string) string
	Extract(e Entry) Article
}

// New resolves a publisher by its configured name. The genre argument is
// the arXiv category, MDPI journal code or OpenAlex ISSN respectively.
func New(name, genre string) (Publisher, error) {
	switch strings.ToLower(name) {
	case "arxiv":
		return NewArXiv(genre), nil
	case "mdpi":
		return NewMDPI(genre), nil
	case "openalex":
		return NewOpenAlex(genre), nil
	default:
		return nil, fmt.Errorf("unknown publisher %q", name)
	}
}

// Matching walks entries once. A stale entry (published before today)
// yields an explicit nil so callers can count skips; a fresh entry whose
// parsed title matches the pattern set yields its extracted article.
// The sequence is single-use.
func Matching(p Publisher, entries []Entry, ps *keyword.PatternSet, today time.Time) iter.Seq[*Article] {
	day := UTCDate(today)
	return func(yield func(*Article) bool) {
		for _, e := range entries {
			if p.PublishDate(e).Before(day) {
				if !yield(nil) {
					return
				}
				continue
			}
			if ps.MatchTitle(p.ParseTitle(e.Title)) {
				a := p.Extract(e)
				if !yield(&a) {
					return
				}
			}
		}
	}
}

// UTCDate truncates a timestamp to its UTC calendar date.
func UTCDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// htmlText strips markup and returns the rendered text, leaving plain
// strings untouched.
func htmlText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}

// joinAuthors re-normalizes a comma-separated author list.
func joinAuthors(s string) string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
