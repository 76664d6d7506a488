package metrics

import (
	"sync"
	"time"
)

// Metrics tracks per-process pipeline counters, exposed by the optional
// monitoring endpoints in main.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	ArticlesSeen          int64
	ArticlesMatched       int64
	TranslationsDeepL     int64
	TranslationsMicrosoft int64
	TranslationsFallback  int64
	Summaries             int64
	SummariesEmpty        int64
	PostsSent             int64
	PostsFailed           int64

	// Timings
	LastRunDuration time.Duration

	// Status
	LastRunTime   time.Time
	LastError     string
	LastErrorTime time.Time
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementArticlesSeen() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesSeen++
}

// AddArticlesSeen counts a whole fetched batch at once.
func (m *Metrics) AddArticlesSeen(n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesSeen += n
}

func (m *Metrics) IncrementArticlesMatched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesMatched++
}

func (m *Metrics) IncrementTranslationsDeepL() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TranslationsDeepL++
}

func (m *Metrics) IncrementTranslationsMicrosoft() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TranslationsMicrosoft++
}

func (m *Metrics) IncrementTranslationsFallback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TranslationsFallback++
}

func (m *Metrics) IncrementSummaries() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Summaries++
}

func (m *Metrics) IncrementSummariesEmpty() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummariesEmpty++
}

func (m *Metrics) IncrementPostsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PostsSent++
}

func (m *Metrics) IncrementPostsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PostsFailed++
}

func (m *Metrics) RecordRun(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunDuration = duration
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"articles_seen":          m.ArticlesSeen,
		"articles_matched":       m.ArticlesMatched,
		"translations_deepl":     m.TranslationsDeepL,
		"translations_microsoft": m.TranslationsMicrosoft,
		"translations_fallback":  m.TranslationsFallback,
		"summaries":              m.Summaries,
		"summaries_empty":        m.SummariesEmpty,
		"posts_sent":             m.PostsSent,
		"posts_failed":           m.PostsFailed,
		"last_run_duration_ms":   m.LastRunDuration.Milliseconds(),
		"last_run_time":          m.LastRunTime.Format(time.RFC3339),
		"last_error":             m.LastError,
		"last_error_time":        m.LastErrorTime.Format(time.RFC3339),
		"is_healthy":             m.IsHealthy,
	}
}
