// Package summary post-processes generated summaries before they are
// rendered into chat messages.
package summary

import (
	"regexp"
	"strings"
)

// DefaultMarker is the section heading the summarization prompt asks the
// model to start with. Anything the model emits before the last
// occurrence is preamble and gets discarded.
const DefaultMarker = "*研究の概要*"

var (
	boldStars      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	boldUnders     = regexp.MustCompile(`__(.+?)__`)
	orderedSpacer  = regexp.MustCompile(`([^\n])\n(\d+\.)`)
	bulletedSpacer = regexp.MustCompile(`([^\n])\n([-*] )`)
	sectionHead    = regexp.MustCompile(`(?m)^## +([^\n]+)\n`)
)

// ExtractAfterLast returns the substring starting at the last occurrence
// of marker, and false if marker never occurs.
func ExtractAfterLast(text, marker string) (string, bool) {
	idx := strings.LastIndex(text, marker)
	if idx == -1 {
		return "", false
	}
	return text[idx:], true
}

// NormalizeForChat converts Markdown-style emphasis to Slack's
// single-asterisk bold and unifies line endings. Idempotent; an empty
// input stays empty.
func NormalizeForChat(text string) string {
	if text == "" {
		return ""
	}

	s := strings.ReplaceAll(text, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSpace(s)

	s = boldStars.ReplaceAllString(s, "*$1*")
	s = boldUnders.ReplaceAllString(s, "*$1*")

	return s
}

// Field is one legacy Slack attachment field.
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// AttachmentFields splits a Markdown summary on "## heading" sections
// and turns each into an attachment field, inserting the blank line
// Slack needs before ordered and unordered lists. Sections with an empty
// heading or body are dropped.
func AttachmentFields(text string) []Field {
	s := strings.ReplaceAll(text, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSpace(s)

	heads := sectionHead.FindAllStringSubmatchIndex(s, -1)
	var fields []Field
	for i, h := range heads {
		title := strings.TrimSpace(s[h[2]:h[3]])
		end := len(s)
		if i+1 < len(heads) {
			end = heads[i+1][0]
		}
		body := strings.TrimSpace(s[h[1]:end])
		body = orderedSpacer.ReplaceAllString(body, "$1\n\n$2")
		body = bulletedSpacer.ReplaceAllString(body, "$1\n\n$2")
		if title == "" || body == "" {
			continue
		}
		fields = append(fields, Field{Title: title, Value: body, Short: false})
	}
	return fields
}
