package enrich

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"paperbot/internal/logger"
)

func init() {
	logger.Init(false)
}

func newTestTranslator(deeplURL, msURL string) *Translator {
	t := NewTranslator("deepl-token", "ms-key", "japaneast")
	t.DeepLURL = deeplURL
	t.MicrosoftURL = msURL
	t.HTTP = &http.Client{Timeout: 5 * time.Second}
	return t
}

func deeplOK(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"translations": []map[string]string{{"text": text}},
		})
	}
}

func microsoftOK(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"translations": []map[string]string{{"text": text, "to": "ja"}}},
		})
	}
}

func TestTranslateUsesDeepLFirst(t *testing.T) {
	deepl := httptest.NewServer(deeplOK("深層学習"))
	defer deepl.Close()
	ms := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("microsoft endpoint must not be called when deepl succeeds")
	}))
	defer ms.Close()

	tr := newTestTranslator(deepl.URL, ms.URL)
	if got := tr.Translate(context.Background(), "deep learning"); got != "深層学習" {
		t.Errorf("got %q", got)
	}
}

func TestTranslateFallsBackToMicrosoftOnDeepLError(t *testing.T) {
	deepl := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(456) // deepl quota-exceeded status
	}))
	defer deepl.Close()

	var traceID string
	ms := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = r.Header.Get("X-ClientTraceId")
		body, _ := io.ReadAll(r.Body)
		var in []map[string]string
		if err := json.Unmarshal(body, &in); err != nil || len(in) != 1 {
			t.Errorf("unexpected request body: %s", body)
		}
		microsoftOK("マイクロソフト訳")(w, r)
	}))
	defer ms.Close()

	tr := newTestTranslator(deepl.URL, ms.URL)
	if got := tr.Translate(context.Background(), "text"); got != "マイクロソフト訳" {
		t.Errorf("got %q", got)
	}
	if traceID == "" {
		t.Error("X-ClientTraceId header missing")
	}
}

func TestTranslateFreshTraceIDPerRequest(t *testing.T) {
	deepl := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(456)
	}))
	defer deepl.Close()

	var ids []string
	ms := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get("X-ClientTraceId"))
		microsoftOK("訳")(w, r)
	}))
	defer ms.Close()

	tr := newTestTranslator(deepl.URL, ms.URL)
	tr.Translate(context.Background(), "one")
	tr.Translate(context.Background(), "two")

	if len(ids) != 2 || ids[0] == ids[1] {
		t.Errorf("expected two distinct trace ids, got %v", ids)
	}
}

func TestTranslateKeepsOriginalWhenBothProvidersFail(t *testing.T) {
	deepl := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(456)
	}))
	defer deepl.Close()
	ms := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ms.Close()

	tr := newTestTranslator(deepl.URL, ms.URL)
	if got := tr.Translate(context.Background(), "original abstract"); got != "original abstract" {
		t.Errorf("got %q, want original text", got)
	}
}

func TestTranslateKeepsOriginalOnUnexpectedFailure(t *testing.T) {
	// An unreachable endpoint is a transport error, not a DeepL API
	// error, so the chain skips Microsoft entirely.
	ms := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("microsoft endpoint must not be called for non-provider errors")
	}))
	defer ms.Close()

	tr := newTestTranslator("http://127.0.0.1:1", ms.URL)
	if got := tr.Translate(context.Background(), "original"); got != "original" {
		t.Errorf("got %q, want original text", got)
	}
}

func TestTranslateEmptyInputPassesThrough(t *testing.T) {
	tr := newTestTranslator("http://127.0.0.1:1", "http://127.0.0.1:1")
	if got := tr.Translate(context.Background(), ""); got != "" {
		t.Errorf("got %q", got)
	}
}
