// Package enrich turns a canonical article into a human-readable
// description: a Japanese translation of the abstract, or an AI-written
// summary of the linked paper. Every failure degrades to a text value;
// nothing here returns an error to the pipeline.
package enrich

import (
	"context"

	"paperbot/internal/feed"
	"paperbot/internal/summary"
)

// Mode selects the enrichment strategy.
type Mode string

const (
	ModeTranslate Mode = "translate"
	ModeSummarize Mode = "summarize"
)

// Enricher fills the description field of matched articles.
type Enricher struct {
	mode       Mode
	marker     string
	translator *Translator
	summarizer *Summarizer
}

func NewEnricher(mode Mode, t *Translator, s *Summarizer) *Enricher {
	return &Enricher{
		mode:       mode,
		marker:     summary.DefaultMarker,
		translator: t,
		summarizer: s,
	}
}

// Enrich produces the final description text. An empty result means
// "skip this article"; the caller must not post it.
func (e *Enricher) Enrich(ctx context.Context, a feed.Article) string {
	switch e.mode {
	case ModeSummarize:
		raw := e.summarizer.Summarize(ctx, a.Link)
		if raw == "" {
			return ""
		}
		// Drop any preamble the model emitted before the expected
		// section heading.
		extracted, ok := summary.ExtractAfterLast(raw, e.marker)
		if !ok {
			return ""
		}
		return summary.NormalizeForChat(extracted)
	default:
		return e.translator.Translate(ctx, a.RawDescription)
	}
}
