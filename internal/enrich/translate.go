package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"paperbot/internal/logger"
	"paperbot/internal/metrics"
)

const (
	defaultDeepLURL     = "https://api-free.deepl.com/v2/translate"
	defaultMicrosoftURL = "https://api.cognitive.microsofttranslator.com/translate?api-version=3.0&from=en&to=ja"
)

// DeepLError is the provider-specific failure that triggers the
// Microsoft fallback. Anything else aborts the chain and keeps the
// original text.
type DeepLError struct {
	Status  int
	Message string
}

func (e *DeepLError) Error() string {
	return fmt.Sprintf("deepl API status %d: %s", e.Status, e.Message)
}

// Translator translates article abstracts EN->JA, DeepL first, Microsoft
// Translator second, original text as the guaranteed last resort.
// Endpoint fields are overridable for tests.
type Translator struct {
	DeepLToken   string
	DeepLURL     string
	MSKey        string
	MSRegion     string
	MicrosoftURL string
	HTTP         *http.Client
}

func NewTranslator(deeplToken, msKey, msRegion string) *Translator {
	return &Translator{
		DeepLToken:   deeplToken,
		DeepLURL:     defaultDeepLURL,
		MSKey:        msKey,
		MSRegion:     msRegion,
		MicrosoftURL: defaultMicrosoftURL,
		HTTP:         &http.Client{Timeout: 20 * time.Second},
	}
}

// Translate never fails: enrichment is best-effort and one bad article
// must not abort the batch.
func (t *Translator) Translate(ctx context.Context, text string) string {
	if text == "" {
		return text
	}

	out, err := t.deepl(ctx, text)
	if err == nil {
		metrics.Global.IncrementTranslationsDeepL()
		return out
	}

	var dle *DeepLError
	if errors.As(err, &dle) {
		logger.Warn("deepl failed, trying microsoft translator", "error", err)
		out, msErr := t.microsoft(ctx, text)
		if msErr == nil {
			metrics.Global.IncrementTranslationsMicrosoft()
			return out
		}
		logger.Warn("microsoft translator failed, keeping original text", "error", msErr)
		metrics.Global.IncrementTranslationsFallback()
		return text
	}

	logger.Warn("translation failed, keeping original text", "error", err)
	metrics.Global.IncrementTranslationsFallback()
	return text
}

func (t *Translator) deepl(ctx context.Context, text string) (string, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("source_lang", "EN")
	form.Set("target_lang", "JA")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.DeepLURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build deepl request: %w", err)
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+t.DeepLToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepl request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", &DeepLError{Status: resp.StatusCode, Message: resp.Status}
	}

	var payload struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode deepl response: %w", err)
	}
	if len(payload.Translations) == 0 {
		return "", &DeepLError{Status: resp.StatusCode, Message: "empty translations"}
	}
	return payload.Translations[0].Text, nil
}

// microsoft posts a single-element text array. The API requires a fresh
// client trace id on every request.
func (t *Translator) microsoft(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal([]map[string]string{{"text": text}})
	if err != nil {
		return "", fmt.Errorf("marshal microsoft request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.MicrosoftURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build microsoft request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", t.MSKey)
	req.Header.Set("Ocp-Apim-Subscription-Region", t.MSRegion)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-ClientTraceId", uuid.NewString())

	resp, err := t.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("microsoft request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("microsoft API status %d", resp.StatusCode)
	}

	var payload []struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode microsoft response: %w", err)
	}
	if len(payload) == 0 || len(payload[0].Translations) == 0 {
		return "", fmt.Errorf("empty microsoft response")
	}
	return payload[0].Translations[0].Text, nil
}
