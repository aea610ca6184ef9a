package extract

import (
	"regexp"
	"strings"
)

// Strategy identifies which fallback step produced the extracted document.
type Strategy string

const (
	// StrategyEmpty is reported for empty input.
	StrategyEmpty Strategy = "empty"

	// StrategyDocument means a complete document span was found in the raw text.
	StrategyDocument Strategy = "document"

	// StrategyHTMLFence means the document came out of a ```html block.
	StrategyHTMLFence Strategy = "html_fence"

	// StrategyGenericFence means the document came out of an unlabeled ``` block.
	StrategyGenericFence Strategy = "generic_fence"

	// StrategyPrefix means the candidate started like HTML but had no
	// well-formed closing span (typically a truncated response).
	StrategyPrefix Strategy = "prefix"

	// StrategyRaw means nothing recognizable was found and the trimmed input
	// was returned as-is.
	StrategyRaw Strategy = "raw"
)

var (
	documentPattern     = regexp.MustCompile(`(?i)<(?:!DOCTYPE html|html)[\s\S]*?</html>`)
	htmlFencePattern    = regexp.MustCompile("(?i)```html\\s*([\\s\\S]*?)\\s*```")
	genericFencePattern = regexp.MustCompile("```\\s*([\\s\\S]*?)\\s*```")
)

const closingTag = "</html>"

// Result is the outcome of an extraction.
type Result struct {
	// HTML is the extracted document, always trimmed.
	HTML string

	// Strategy reports which step produced HTML.
	Strategy Strategy
}

// HTML returns the best-effort HTML document contained in text.
func HTML(text string) string {
	return Extract(text).HTML
}

// Extract runs the fallback chain and reports which step succeeded.
func Extract(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Strategy: StrategyEmpty}
	}

	if span := documentPattern.FindString(text); span != "" {
		return Result{HTML: strings.TrimSpace(span), Strategy: StrategyDocument}
	}

	candidate, source := defence(text)

	if span := documentPattern.FindString(candidate); span != "" {
		return Result{HTML: strings.TrimSpace(span), Strategy: source}
	}

	if looksLikeHTML(candidate) {
		if end := strings.LastIndex(strings.ToLower(candidate), closingTag); end != -1 {
			candidate = candidate[:end+len(closingTag)]
		}
		return Result{HTML: strings.TrimSpace(candidate), Strategy: StrategyPrefix}
	}

	return Result{HTML: strings.TrimSpace(text), Strategy: StrategyRaw}
}

// defence strips markdown fences from text. A fence only counts when its body
// is non-empty. When no fence matches, the trimmed text is returned with
// StrategyRaw.
func defence(text string) (string, Strategy) {
	if m := htmlFencePattern.FindStringSubmatch(text); m != nil && m[1] != "" {
		return strings.TrimSpace(m[1]), StrategyHTMLFence
	}
	if m := genericFencePattern.FindStringSubmatch(text); m != nil && m[1] != "" {
		return strings.TrimSpace(m[1]), StrategyGenericFence
	}
	return strings.TrimSpace(text), StrategyRaw
}

func looksLikeHTML(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "<!doctype html") || strings.HasPrefix(lower, "<html")
}
