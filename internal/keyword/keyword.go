// Package keyword compiles the configured keyword groups into the
// pattern set article titles are matched against.
package keyword

import (
	"fmt"
	"regexp"
	"strings"
)

// Group names accepted in the keyword file. "fixed" keywords match
// case-sensitively (acronyms like SLAM must not match "slam dunk");
// "variable" keywords match case-insensitively, and multi-word variable
// keywords also match with their spaces removed ("deep learning" /
// "deeplearning").
const (
	GroupFixed    = "fixed"
	GroupVariable = "variable"
)

// PatternSet is an ordered, read-only set of compiled title matchers.
type PatternSet struct {
	patterns []*regexp.Regexp
}

// Compile builds a PatternSet from keyword groups. An unknown group name
// is a configuration error; callers treat it as fatal before any network
// activity starts.
func Compile(groups map[string][]string) (*PatternSet, error) {
	ps := &PatternSet{}

	for name := range groups {
		switch name {
		case GroupFixed, GroupVariable:
		default:
			return nil, fmt.Errorf("unknown keyword group %q (want %q or %q)", name, GroupFixed, GroupVariable)
		}
	}

	// Map iteration order is random; compile fixed first, then variable,
	// so the set is deterministic for identical input.
	for _, k := range groups[GroupFixed] {
		re, err := regexp.Compile(k)
		if err != nil {
			return nil, fmt.Errorf("fixed keyword %q: %w", k, err)
		}
		ps.patterns = append(ps.patterns, re)
	}

	for _, k := range groups[GroupVariable] {
		re, err := regexp.Compile("(?i)" + k)
		if err != nil {
			return nil, fmt.Errorf("variable keyword %q: %w", k, err)
		}
		ps.patterns = append(ps.patterns, re)

		if strings.Contains(k, " ") {
			joined := strings.ReplaceAll(k, " ", "")
			re, err := regexp.Compile("(?i)" + joined)
			if err != nil {
				return nil, fmt.Errorf("variable keyword %q (no-space variant): %w", k, err)
			}
			ps.patterns = append(ps.patterns, re)
		}
	}

	if len(ps.patterns) == 0 {
		return nil, fmt.Errorf("keyword file defines no keywords")
	}

	return ps, nil
}

// MatchTitle reports whether any pattern matches the title.
func (ps *PatternSet) MatchTitle(title string) bool {
	for _, p := range ps.patterns {
		if p.MatchString(title) {
			return true
		}
	}
	return false
}

// Len returns the number of compiled patterns, no-space variants included.
func (ps *PatternSet) Len() int {
	return len(ps.patterns)
}
