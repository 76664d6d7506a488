package feed

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// arXiv appends an " (arXiv:ID [category] ...)" suffix to every title.
var arxivSuffix = regexp.MustCompile(` .arXiv:.*`)

// ArXiv reads the per-category RSS feed. The feed carries one feed-level
// update date for all entries.
type ArXiv struct {
	Genre   string
	FeedURL string

	parser *gofeed.Parser
}

func NewArXiv(genre string) *ArXiv {
	return &ArXiv{
		Genre:   genre,
		FeedURL: fmt.Sprintf("https://rss.arxiv.org/rss/%s", genre),
		parser:  gofeed.NewParser(),
	}
}

func (a *ArXiv) Name() string { return "arxiv" }

func (a *ArXiv) Fetch(ctx context.Context) ([]Entry, error) {
	f, err := a.parser.ParseURLWithContext(a.FeedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse arxiv feed %s: %w", a.Genre, err)
	}

	updated := time.Now().UTC()
	if f.UpdatedParsed != nil {
		updated = *f.UpdatedParsed
	} else if f.PublishedParsed != nil {
		updated = *f.PublishedParsed
	}

	entries := make([]Entry, 0, len(f.Items))
	for _, item := range f.Items {
		entries = append(entries, Entry{
			Title:       item.Title,
			Link:        item.Link,
			AuthorsHTML: itemAuthors(item),
			Description: item.Description,
			FeedUpdated: updated,
		})
	}
	return entries, nil
}

func (a *ArXiv) PublishDate(e Entry) time.Time {
	return UTCDate(e.FeedUpdated)
}

func (a *ArXiv) ParseTitle(raw string) string {
	return arxivSuffix.ReplaceAllString(raw, "")
}

func (a *ArXiv) Extract(e Entry) Article {
	link := e.Link
	if strings.HasPrefix(link, "http:") {
		link = "https:" + strings.TrimPrefix(link, "http:")
	}

	return Article{
		Title:          a.ParseTitle(e.Title),
		Link:           link,
		Authors:        joinAuthors(htmlText(e.AuthorsHTML)),
		RawDescription: arxivAbstract(e.Description),
	}
}

// arxivAbstract pulls the abstract body out of the entry description:
// everything between the "Abstract:" marker and the closing paragraph
// tag, with newlines and runs of spaces collapsed.
func arxivAbstract(description string) string {
	_, rest, found := strings.Cut(description, "Abstract:")
	if !found {
		rest = description
	}
	rest = strings.ReplaceAll(rest, "\n", " ")
	rest, _, _ = strings.Cut(rest, "</p>")
	return strings.Join(strings.Fields(rest), " ")
}

func itemAuthors(item *gofeed.Item) string {
	if len(item.Authors) > 0 {
		names := make([]string, 0, len(item.Authors))
		for _, a := range item.Authors {
			if a != nil && a.Name != "" {
				names = append(names, a.Name)
			}
		}
		return strings.Join(names, ", ")
	}
	if item.Author != nil {
		return item.Author.Name
	}
	return ""
}
