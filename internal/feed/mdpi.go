package feed

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// MDPI prefixes titles with a running number, e.g. "12: Title".
var numberedPrefix = regexp.MustCompile(`.*[0-9]: `)

// MDPI reads a journal RSS feed. Entry dates lag one day behind the
// actual RSS delivery, so publish dates get a +1 day correction.
type MDPI struct {
	Journal string
	FeedURL string

	parser *gofeed.Parser
}

func NewMDPI(journal string) *MDPI {
	return &MDPI{
		Journal: journal,
		FeedURL: fmt.Sprintf("https://www.mdpi.com/rss/journal/%s", journal),
		parser:  gofeed.NewParser(),
	}
}

func (m *MDPI) Name() string { return "mdpi" }

func (m *MDPI) Fetch(ctx context.Context) ([]Entry, error) {
	f, err := m.parser.ParseURLWithContext(m.FeedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse mdpi feed %s: %w", m.Journal, err)
	}

	entries := make([]Entry, 0, len(f.Items))
	for _, item := range f.Items {
		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		}
		entries = append(entries, Entry{
			Title:       item.Title,
			Link:        item.Link,
			AuthorsHTML: itemAuthors(item),
			Description: item.Description,
			Published:   published,
		})
	}
	return entries, nil
}

func (m *MDPI) PublishDate(e Entry) time.Time {
	return UTCDate(e.Published).AddDate(0, 0, 1)
}

func (m *MDPI) ParseTitle(raw string) string {
	return numberedPrefix.ReplaceAllString(raw, "")
}

func (m *MDPI) Extract(e Entry) Article {
	description := strings.ReplaceAll(e.Description, "'", "")
	return Article{
		Title:          m.ParseTitle(e.Title),
		Link:           e.Link,
		Authors:        joinAuthors(e.AuthorsHTML),
		RawDescription: strings.Join(strings.Fields(description), " "),
	}
}
