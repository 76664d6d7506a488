package feed

import (
	"testing"
	"time"
)

func TestArXivParseTitleStripsSuffix(t *testing.T) {
	a := NewArXiv("cs.CV")
	got := a.ParseTitle("Neural Radiance Fields Revisited. (arXiv:2401.00001v1 [cs.CV])")
	if want := "Neural Radiance Fields Revisited."; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestArXivParseTitleWithoutSuffixUnchanged(t *testing.T) {
	a := NewArXiv("cs.CV")
	title := "A Title With No Decoration"
	if got := a.ParseTitle(title); got != title {
		t.Errorf("got %q, want %q", got, title)
	}
}

func TestArXivExtractForcesHTTPSAndStripsAnchors(t *testing.T) {
	a := NewArXiv("cs.CV")
	e := Entry{
		Title:       "Sample Paper (arXiv:2401.00001v1 [cs.CV])",
		Link:        "http://arxiv.org/abs/2401.00001",
		AuthorsHTML: `<a href="http://arxiv.org/a/doe_j_1">Jane Doe</a>, <a href="http://arxiv.org/a/roe_r_1">Rick Roe</a>`,
		Description: "<p>Announce Type: new \nAbstract: We study\nthe problem of X.</p>",
		FeedUpdated: time.Date(2025, 6, 2, 4, 0, 0, 0, time.UTC),
	}

	art := a.Extract(e)
	if art.Link != "https://arxiv.org/abs/2401.00001" {
		t.Errorf("link not forced to https: %q", art.Link)
	}
	if art.Authors != "Jane Doe, Rick Roe" {
		t.Errorf("anchors not stripped: %q", art.Authors)
	}
	if art.RawDescription != "We study the problem of X." {
		t.Errorf("abstract extraction: %q", art.RawDescription)
	}
}

func TestArXivPublishDateUsesFeedUpdated(t *testing.T) {
	a := NewArXiv("cs.CV")
	e := Entry{FeedUpdated: time.Date(2025, 6, 2, 23, 59, 0, 0, time.UTC)}
	if got := a.PublishDate(e); !got.Equal(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("got %v", got)
	}
}
