package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestInvertedToTextSortsPositions(t *testing.T) {
	inv := map[string][]int{
		"learning": {1},
		"deep":     {0},
		"for":      {2},
		"change":   {3, 5},
		"and":      {4},
	}
	got := invertedToText(inv)
	if want := "deep learning for change and change"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestInvertedToTextEmptyIndex(t *testing.T) {
	if got := invertedToText(nil); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestOpenAlexPublishDateAddsFeedLagDay(t *testing.T) {
	o := NewOpenAlex("2072-4292")
	e := Entry{Published: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	if got := o.PublishDate(e); !got.Equal(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("got %v", got)
	}
}

func TestOpenAlexFetchMapsWorks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("sort") != "publication_date:desc" {
			t.Errorf("sort = %q", q.Get("sort"))
		}
		if q.Get("per-page") != "200" {
			t.Errorf("per-page = %q", q.Get("per-page"))
		}
		w.Write([]byte(`{"results":[{
			"doi":"https://doi.org/10.1000/xyz",
			"title":"3: Mapping Forest Change",
			"publication_date":"2025-06-01",
			"primary_location":{"landing_page_url":"https://example.org/article"},
			"abstract_inverted_index":{"Forests":[0],"change":[1]},
			"authorships":[{"author":{"display_name":"Jane Doe"}}]
		}]}`))
	}))
	defer srv.Close()

	o := NewOpenAlex("2072-4292")
	o.BaseURL = srv.URL

	entries, err := o.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}

	art := o.Extract(entries[0])
	if art.Title != "Mapping Forest Change" {
		t.Errorf("numbered prefix not stripped: %q", art.Title)
	}
	if art.Link != "https://doi.org/10.1000/xyz" {
		t.Errorf("link = %q", art.Link)
	}
	if art.Authors != "Jane Doe" {
		t.Errorf("authors = %q", art.Authors)
	}
	if art.RawDescription != "Forests change" {
		t.Errorf("abstract = %q", art.RawDescription)
	}
}

func TestMDPIParseTitleStripsNumberedPrefix(t *testing.T) {
	m := NewMDPI("remotesensing")
	got := m.ParseTitle("Remote Sensing, Vol. 17, Pages 12: Flood Mapping with SAR")
	if want := "Flood Mapping with SAR"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMDPIPublishDateAddsFeedLagDay(t *testing.T) {
	m := NewMDPI("remotesensing")
	e := Entry{Published: time.Date(2025, 5, 31, 22, 0, 0, 0, time.UTC)}
	if got := m.PublishDate(e); !got.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("got %v", got)
	}
}
