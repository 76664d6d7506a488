// Package app drives one pipeline pass: fetch every configured feed,
// match titles against the keyword set, enrich matches and post them to
// every configured Slack channel.
package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"paperbot/internal/blocks"
	"paperbot/internal/config"
	"paperbot/internal/enrich"
	"paperbot/internal/feed"
	"paperbot/internal/keyword"
	"paperbot/internal/logger"
	"paperbot/internal/metrics"
	"paperbot/internal/slack"
	"paperbot/internal/summary"
)

// Run executes one pass. It returns an error only for configuration
// problems; per-feed and per-post failures are logged and the pass
// continues.
func Run(ctx context.Context, cfg *config.Config) error {
	ps, err := keyword.Compile(cfg.Keywords)
	if err != nil {
		return fmt.Errorf("compile keywords: %w", err)
	}
	logger.Info("compiled keyword patterns", "count", ps.Len())

	enricher, err := newEnricher(ctx, cfg)
	if err != nil {
		return err
	}

	clients := make([]*slack.Client, len(cfg.SlackTokens))
	for i, token := range cfg.SlackTokens {
		clients[i] = slack.NewClient(token)
	}

	start := time.Now()
	today := time.Now()
	matched := 0

	// Map order is random; walk publishers in a stable order so runs
	// are comparable.
	names := make([]string, 0, len(cfg.Publishers))
	for name := range cfg.Publishers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, genre := range cfg.Publishers[name] {
			pub, err := feed.New(name, genre)
			if err != nil {
				return fmt.Errorf("configure publisher: %w", err)
			}

			entries, err := pub.Fetch(ctx)
			if err != nil {
				logger.Error("fetch failed", "publisher", pub.Name(), "genre", genre, "error", err)
				metrics.Global.SetError(err.Error())
				continue
			}
			logger.Info("fetched entries", "publisher", pub.Name(), "genre", genre, "count", len(entries))
			metrics.Global.AddArticlesSeen(int64(len(entries)))

			stale := 0
			for a := range feed.Matching(pub, entries, ps, today) {
				if a == nil {
					stale++
					continue
				}
				matched++
				metrics.Global.IncrementArticlesMatched()
				logger.Info(fmt.Sprintf("Progress: %02d", matched), "publisher", pub.Name(), "title", a.Title)

				desc := enricher.Enrich(ctx, *a)
				if desc == "" {
					logger.Warn("empty description, skipping article", "title", a.Title)
					continue
				}

				postAll(ctx, cfg, clients, *a, desc, matched)
			}
			if stale > 0 {
				logger.Debug("skipped stale entries", "publisher", pub.Name(), "count", stale)
			}
		}
	}

	metrics.Global.RecordRun(time.Since(start))
	logger.Info("run finished", "matched", matched, "duration", time.Since(start))
	return nil
}

func newEnricher(ctx context.Context, cfg *config.Config) (*enrich.Enricher, error) {
	if cfg.Mode == config.ModeSummarize {
		s, err := enrich.NewSummarizer(ctx, cfg.GeminiToken)
		if err != nil {
			return nil, fmt.Errorf("init summarizer: %w", err)
		}
		return enrich.NewEnricher(enrich.ModeSummarize, nil, s), nil
	}
	t := enrich.NewTranslator(cfg.DeepLToken, cfg.MSTranslateKey, cfg.MSTranslateRegion)
	return enrich.NewEnricher(enrich.ModeTranslate, t, nil), nil
}

// postAll sends one article to every token/channel pair. A failed post
// is logged and the remaining channels still get the message.
func postAll(ctx context.Context, cfg *config.Config, clients []*slack.Client, a feed.Article, desc string, seq int) {
	for i, client := range clients {
		var err error
		if cfg.PostStyle == config.StyleAttachment {
			err = client.PostAttachment(ctx, cfg.Channels[i], attachmentText(a), slack.Attachment{
				Title:  "Abstract",
				Fields: summary.AttachmentFields(desc),
				Color:  slack.Colors[(seq-1)%len(slack.Colors)],
			})
		} else {
			msg := blocks.Build(blocks.Article{
				Title:       a.Title,
				Link:        a.Link,
				Authors:     a.Authors,
				Description: desc,
			})
			err = client.PostBlocks(ctx, cfg.Channels[i], a.Title, msg)
		}

		if err != nil {
			logger.Error("post failed", "channel", cfg.Channels[i], "title", a.Title, "error", err)
			metrics.Global.IncrementPostsFailed()
			continue
		}
		metrics.Global.IncrementPostsSent()
	}
}

func attachmentText(a feed.Article) string {
	return fmt.Sprintf("*%s*\n%s\n%s\n", a.Title, a.Link, a.Authors)
}
