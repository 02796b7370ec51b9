// ABOUTME: Deterministic segmentation of freeform assistant answers into display sections
// ABOUTME: Total function - malformed input degrades to a single intro section, never errors

package answer

import (
	"regexp"
	"strings"
)

// SectionKind distinguishes synthesized intro text from explicitly headed sections.
type SectionKind string

const (
	KindIntro   SectionKind = "intro"
	KindSection SectionKind = "section"
)

// Section is one contiguous, classified chunk of an assistant answer.
type Section struct {
	Kind    SectionKind `json:"kind"`
	Title   string      `json:"title,omitempty"`
	TitleEn string      `json:"titleEn,omitempty"`
	Content string      `json:"content"`
	Icon    string      `json:"icon,omitempty"`
	Color   string      `json:"color,omitempty"`
}

var (
	// headerRe matches "bullet, then a bolded span": the worker's section markers.
	headerRe = regexp.MustCompile(`^\s*[*\-]\s+\*\*(.+?)\*\*`)
	// titleSplitRe separates "शीर्षक (English Title)" into native and English parts.
	titleSplitRe = regexp.MustCompile(`^(.*?)\s*[(（]([^)）]*)[)）]\s*$`)
	// ruleRe matches bare horizontal-rule lines the worker emits between sections.
	ruleRe = regexp.MustCompile(`^(-{3,}|\*{3,}|_{3,})$`)
	// bulletRe detects list glyphs for intro exclusion and glyph rewriting.
	bulletRe = regexp.MustCompile(`^\s*[*\-•]\s+`)
	// numberedRe matches numbered list items, which pass through verbatim.
	numberedRe = regexp.MustCompile(`^\s*\d+\.\s`)
)

// Segment parses a raw answer into an ordered section list. Section order
// mirrors the source text, with at most one synthesized intro prepended.
// An empty answer yields nil; any non-empty answer yields at least one
// section. Horizontal-rule lines are discarded and contribute to nothing.
func Segment(raw string) []Section {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	lines := strings.Split(raw, "\n")

	var (
		sections   []Section
		introLines []string
		bodyLines  []string // non-separator lines, for the headerless fallback
		open       *Section
		openLines  []string
	)

	closeOpen := func() {
		if open == nil {
			return
		}
		open.Content = strings.TrimSpace(strings.Join(openLines, "\n"))
		sections = append(sections, *open)
		open = nil
		openLines = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if ruleRe.MatchString(trimmed) {
			continue
		}
		bodyLines = append(bodyLines, line)

		if m := headerRe.FindStringSubmatch(line); m != nil {
			closeOpen()
			title, titleEn := splitTitle(m[1])
			sec := Section{Kind: KindSection, Title: title, TitleEn: titleEn}
			sec.Icon, sec.Color = Classify(title, titleEn)
			open = &sec
			continue
		}

		if open != nil {
			openLines = append(openLines, transformContentLine(line))
			continue
		}

		// Before the first header: plain prose joins the intro, stray
		// bullets and blank lines do not.
		if trimmed != "" && !bulletRe.MatchString(line) {
			introLines = append(introLines, line)
		}
	}
	closeOpen()

	// No headers anywhere: the whole answer (minus separators) is the intro.
	if len(sections) == 0 {
		content := strings.TrimSpace(strings.Join(bodyLines, "\n"))
		return []Section{{Kind: KindIntro, Content: content}}
	}

	if len(introLines) > 0 {
		intro := Section{Kind: KindIntro, Content: strings.TrimSpace(strings.Join(introLines, "\n"))}
		sections = append([]Section{intro}, sections...)
	}

	return sections
}

// splitTitle divides a header payload into the native title and the
// parenthesized English suffix, when one is present.
func splitTitle(payload string) (title, titleEn string) {
	if m := titleSplitRe.FindStringSubmatch(payload); m != nil && strings.TrimSpace(m[1]) != "" {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return strings.TrimSpace(payload), ""
}

// transformContentLine applies the per-line content rules: numbered items
// pass through verbatim, bullet glyphs are normalized to "•", everything
// else is untouched.
func transformContentLine(line string) string {
	if numberedRe.MatchString(line) {
		return line
	}
	if bulletRe.MatchString(line) {
		return bulletRe.ReplaceAllString(line, "• ")
	}
	return line
}
