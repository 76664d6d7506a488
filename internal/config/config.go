// Package config loads the pipeline configuration: a YAML file naming
// the feeds to poll and the keyword groups, plus credentials and mode
// switches from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Enrichment modes and posting styles.
const (
	ModeTranslate = "translate"
	ModeSummarize = "summarize"

	StyleBlocks     = "blocks"
	StyleAttachment = "attachment"
)

// File is the YAML side of the configuration.
//
//	publishers:
//	  arxiv: [cs.CV]
//	keywords:
//	  fixed: [SLAM]
//	  variable: [deep learning]
type File struct {
	// Publishers maps a publisher name to its genres (arXiv category,
	// MDPI journal code or OpenAlex ISSN).
	Publishers map[string][]string `yaml:"publishers"`
	Keywords   map[string][]string `yaml:"keywords"`
}

// Env is the environment side: credentials, channels and mode switches.
// SlackTokens and Channels are parallel lists; token i posts to
// channel i.
type Env struct {
	SlackTokens []string `envconfig:"SLACK_API_TOKENS"`
	Channels    []string `envconfig:"POST_CHANNELS"`

	DeepLToken        string `envconfig:"DEEPL_API_TOKEN"`
	MSTranslateKey    string `envconfig:"MS_TRANSLATE_KEY"`
	MSTranslateRegion string `envconfig:"MS_TRANSLATE_REGION" default:"japaneast"`
	GeminiToken       string `envconfig:"GEMINI_API_TOKEN"`

	Mode      string `envconfig:"ENRICH_MODE" default:"translate"`
	PostStyle string `envconfig:"POST_STYLE" default:"blocks"`
	Debug     bool   `envconfig:"DEBUG"`
}

type Config struct {
	File
	Env
}

// Load reads the YAML file, overlays the environment and validates the
// result. Any error here is fatal; nothing has touched the network yet.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var file File
	if err := yaml.NewDecoder(f).Decode(&file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	cfg := &Config{File: file, Env: env}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.Publishers) == 0 {
		return fmt.Errorf("no publishers configured")
	}
	if len(c.Keywords) == 0 {
		return fmt.Errorf("no keyword groups configured")
	}
	if len(c.SlackTokens) == 0 {
		return fmt.Errorf("SLACK_API_TOKENS is not set")
	}
	if len(c.SlackTokens) != len(c.Channels) {
		return fmt.Errorf("SLACK_API_TOKENS and POST_CHANNELS must pair up (%d tokens, %d channels)",
			len(c.SlackTokens), len(c.Channels))
	}

	switch c.Mode {
	case ModeTranslate:
		if c.DeepLToken == "" {
			return fmt.Errorf("DEEPL_API_TOKEN is required in translate mode")
		}
	case ModeSummarize:
		if c.GeminiToken == "" {
			return fmt.Errorf("GEMINI_API_TOKEN is required in summarize mode")
		}
	default:
		return fmt.Errorf("unknown ENRICH_MODE %q (want %q or %q)", c.Mode, ModeTranslate, ModeSummarize)
	}

	switch c.PostStyle {
	case StyleBlocks, StyleAttachment:
	default:
		return fmt.Errorf("unknown POST_STYLE %q (want %q or %q)", c.PostStyle, StyleBlocks, StyleAttachment)
	}

	return nil
}
