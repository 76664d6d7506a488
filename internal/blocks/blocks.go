// Package blocks renders an enriched article into the ordered Slack
// block sequence the poster sends as-is: divider, header (split in two
// when the title is overlong), link, hashtags, body sections.
package blocks

import (
	"strings"
	"unicode"
)

// Slack header blocks cut off around 150 characters; longer titles are
// split across two header blocks.
const headerLimit = 150

// Style marks a text run as bold, italic and/or monospace.
type Style struct {
	Bold   bool `json:"bold,omitempty"`
	Italic bool `json:"italic,omitempty"`
	Code   bool `json:"code,omitempty"`
}

// Element is a single styled run inside a rich-text section: plain
// text, or a clickable link when URL is set.
type Element struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	URL   string `json:"url,omitempty"`
	Style *Style `json:"style,omitempty"`
}

// Section is one rich_text_section. Elements is always non-nil so an
// empty section marshals as [] rather than null.
type Section struct {
	Type     string    `json:"type"`
	Elements []Element `json:"elements"`
}

// PlainText is the header block payload.
type PlainText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Block is one Slack layout block: "divider", "header" (Text set) or
// "rich_text" (Elements set).
type Block struct {
	Type     string     `json:"type"`
	Text     *PlainText `json:"text,omitempty"`
	Elements []Section  `json:"elements,omitempty"`
}

func textRun(text string) Element {
	return Element{Type: "text", Text: text}
}

func tagRun(text string) Element {
	return Element{Type: "text", Text: text, Style: &Style{Italic: true, Code: true}}
}

func section(elements []Element) Section {
	if elements == nil {
		elements = []Element{}
	}
	return Section{Type: "rich_text_section", Elements: elements}
}

// Article is the enriched record the builder consumes.
type Article struct {
	Title       string
	Link        string
	Authors     string
	Description string
}

// Build renders the fixed block sequence for one article:
// [divider, header(s), link, hashtags, body].
func Build(a Article) []Block {
	out := []Block{Divider()}
	out = append(out, Headers(a.Title)...)
	out = append(out, LinkBlock(a.Link), TagBlock(a.Description), BodyBlock(a.Description))
	return out
}

func Divider() Block {
	return Block{Type: "divider"}
}

// Headers renders the title as one header block, or two when it exceeds
// the Slack header limit. The split point is the last space at or before
// the limit and the split space itself is dropped; a title with no such
// space is hard-cut at the limit.
func Headers(title string) []Block {
	runes := []rune(title)
	if len(runes) <= headerLimit {
		return []Block{header(title)}
	}

	cut := -1
	for i := headerLimit; i >= 0; i-- {
		if runes[i] == ' ' {
			cut = i
			break
		}
	}
	if cut < 0 {
		return []Block{header(string(runes[:headerLimit])), header(string(runes[headerLimit:]))}
	}
	return []Block{header(string(runes[:cut])), header(string(runes[cut+1:]))}
}

func header(text string) Block {
	return Block{Type: "header", Text: &PlainText{Type: "plain_text", Text: text}}
}

// LinkBlock renders a single clickable link to the article.
func LinkBlock(url string) Block {
	return Block{
		Type: "rich_text",
		Elements: []Section{
			section([]Element{{Type: "link", URL: url}}),
		},
	}
}

// TagBlock parses hashtags from the final paragraph of the description
// and renders them as italic monospace "#tag" runs separated by single
// spaces. A paragraph with no tags yields an empty section rather than
// an error; the tag paragraph is reserved by convention and may simply
// be missing.
func TagBlock(description string) Block {
	paragraphs := strings.Split(description, "\n\n")
	last := paragraphs[len(paragraphs)-1]

	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, last)

	var tags []string
	for _, s := range strings.Split(stripped, "#") {
		if len(s) > 0 {
			tags = append(tags, s)
		}
	}

	var elements []Element
	for i, tag := range tags {
		if i > 0 {
			elements = append(elements, textRun(" "))
		}
		elements = append(elements, tagRun("#"+tag))
	}

	return Block{Type: "rich_text", Elements: []Section{section(elements)}}
}

// BodyBlock renders every paragraph except the last (reserved for tags)
// as one section: the first line bold, the remaining lines verbatim.
// Sections with an empty title or body are kept so the paragraph
// structure survives 1:1.
func BodyBlock(description string) Block {
	paragraphs := strings.Split(description, "\n\n")

	sections := make([]Section, 0, len(paragraphs)-1)
	for _, p := range paragraphs[:len(paragraphs)-1] {
		lines := strings.Split(p, "\n")
		title := lines[0]
		body := strings.Join(lines[1:], "\n")

		sections = append(sections, section([]Element{
			{Type: "text", Text: title + "\n", Style: &Style{Bold: true}},
			textRun(body),
		}))
	}

	return Block{Type: "rich_text", Elements: sections}
}
