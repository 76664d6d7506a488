package enrich

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"paperbot/internal/logger"
	"paperbot/internal/metrics"
	"paperbot/internal/ratelimit"
)

const (
	primaryModel  = "gemini-2.5-flash"
	fallbackModel = "gemini-2.5-flash-lite"

	// Free-tier request floors per model tier.
	primaryFloor  = 12 * time.Second
	fallbackFloor = 6 * time.Second
)

// defaultPrompt instructs the model to read the article behind the URL
// (url_context tool) and emit Slack-formatted sections, starting with
// the marker heading the extractor keys on.
const defaultPrompt = `あなたは学術論文を紹介するアシスタントです。次のURLの論文を読み、日本語で要約してください。
必ず *研究の概要* という見出しから書き始め、続けて *新規性*、*手法*、*結果* の各セクションを書いてください。
見出しは *見出し* のように半角アスタリスクで囲み、見出しの直後に本文を改行で続け、セクション同士は空行で区切ってください。
最後の段落には内容を表すタグを #タグ 形式でスペース区切りで列挙してください。それ以外の前置きや後書きは不要です。
URL: `

// GenerateFunc issues one model call and returns the generated text.
type GenerateFunc func(ctx context.Context, model, contents string) (string, error)

// Summarizer produces an article summary from its URL via Gemini,
// falling back to the lite model tier on rate-limit errors and pacing
// every call against the per-tier request floor.
type Summarizer struct {
	Prompt string

	generate GenerateFunc
	pacer    *ratelimit.Pacer
	now      func() time.Time
}

// NewSummarizer wires the Gemini API client.
func NewSummarizer(ctx context.Context, apiKey string) (*Summarizer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	gen := func(ctx context.Context, model, contents string) (string, error) {
		config := &genai.GenerateContentConfig{
			Tools:       []*genai.Tool{{URLContext: &genai.URLContext{}}},
			Temperature: genai.Ptr[float32](0),
		}
		resp, err := client.Models.GenerateContent(ctx, model, genai.Text(contents), config)
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}

	return &Summarizer{
		Prompt:   defaultPrompt,
		generate: gen,
		pacer:    ratelimit.New(),
		now:      time.Now,
	}, nil
}

// Summarize returns the raw generated summary, or "" when no summary
// could be produced. It never returns an error; the caller skips
// articles with an empty description.
func (s *Summarizer) Summarize(ctx context.Context, link string) string {
	contents := s.Prompt + link

	start := s.now()
	out, err := s.generate(ctx, primaryModel, contents)
	if err == nil {
		s.pacer.Wait(start, primaryFloor)
		metrics.Global.IncrementSummaries()
		return out
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusTooManyRequests {
		logger.Warn("summarization failed", "model", primaryModel, "error", err)
		metrics.Global.IncrementSummariesEmpty()
		return ""
	}

	logger.Warn("rate limited, retrying on lite model", "model", fallbackModel)
	start = s.now()
	out, err = s.generate(ctx, fallbackModel, contents)
	if err != nil {
		logger.Warn("summarization failed", "model", fallbackModel, "error", err)
		metrics.Global.IncrementSummariesEmpty()
		return ""
	}
	s.pacer.Wait(start, fallbackFloor)
	metrics.Global.IncrementSummaries()
	return out
}
