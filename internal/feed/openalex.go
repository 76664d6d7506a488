package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// OpenAlex queries the works API for recent publications of one journal
// ISSN. Abstracts arrive as an inverted word->positions index and are
// reconstructed into plain text.
type OpenAlex struct {
	ISSN    string
	BaseURL string
	HTTP    *http.Client

	DaysBack int
	PerPage  int
}

func NewOpenAlex(issn string) *OpenAlex {
	return &OpenAlex{
		ISSN:     issn,
		BaseURL:  "https://api.openalex.org/works",
		HTTP:     &http.Client{Timeout: 30 * time.Second},
		DaysBack: 2,
		PerPage:  200,
	}
}

func (o *OpenAlex) Name() string { return "openalex" }

type openAlexWork struct {
	DOI             string `json:"doi"`
	Title           string `json:"title"`
	PublicationDate string `json:"publication_date"`
	PrimaryLocation struct {
		LandingPageURL string `json:"landing_page_url"`
	} `json:"primary_location"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
	Authorships           []struct {
		Author struct {
			DisplayName string `json:"display_name"`
		} `json:"author"`
	} `json:"authorships"`
}

func (o *OpenAlex) Fetch(ctx context.Context) ([]Entry, error) {
	from := UTCDate(time.Now()).AddDate(0, 0, -o.DaysBack).Format("2006-01-02")

	params := url.Values{}
	params.Set("filter", fmt.Sprintf("primary_location.source.issn:%s,from_publication_date:%s", o.ISSN, from))
	params.Set("sort", "publication_date:desc")
	params.Set("per-page", fmt.Sprintf("%d", o.PerPage))
	params.Set("select", "doi,title,publication_date,primary_location,abstract_inverted_index,authorships")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build openalex request: %w", err)
	}

	resp, err := o.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query openalex: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openalex returned status %d", resp.StatusCode)
	}

	var payload struct {
		Results []openAlexWork `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode openalex response: %w", err)
	}

	entries := make([]Entry, 0, len(payload.Results))
	for _, w := range payload.Results {
		link := w.DOI
		if link == "" {
			link = w.PrimaryLocation.LandingPageURL
		}

		var published time.Time
		if t, err := time.Parse("2006-01-02", w.PublicationDate); err == nil {
			published = t
		}

		names := make([]string, 0, len(w.Authorships))
		for _, as := range w.Authorships {
			if as.Author.DisplayName != "" {
				names = append(names, as.Author.DisplayName)
			}
		}

		entries = append(entries, Entry{
			Title:       w.Title,
			Link:        link,
			AuthorsHTML: strings.Join(names, ", "),
			Published:   published,
			Inverted:    w.AbstractInvertedIndex,
		})
	}
	return entries, nil
}

// PublishDate applies the same +1 day feed-lag correction as MDPI.
func (o *OpenAlex) PublishDate(e Entry) time.Time {
	return UTCDate(e.Published).AddDate(0, 0, 1)
}

func (o *OpenAlex) ParseTitle(raw string) string {
	return numberedPrefix.ReplaceAllString(raw, "")
}

func (o *OpenAlex) Extract(e Entry) Article {
	return Article{
		Title:          o.ParseTitle(e.Title),
		Link:           e.Link,
		Authors:        joinAuthors(e.AuthorsHTML),
		RawDescription: invertedToText(e.Inverted),
	}
}

// invertedToText rebuilds abstract text from the word->positions index:
// positions sorted ascending, words joined by single spaces.
func invertedToText(inv map[string][]int) string {
	if len(inv) == 0 {
		return ""
	}

	posToWord := map[int]string{}
	positions := make([]int, 0, len(inv))
	for word, ps := range inv {
		for _, p := range ps {
			if _, seen := posToWord[p]; !seen {
				positions = append(positions, p)
			}
			posToWord[p] = word
		}
	}
	sort.Ints(positions)

	words := make([]string, 0, len(positions))
	for _, p := range positions {
		words = append(words, posToWord[p])
	}
	return strings.Join(words, " ")
}
