package extract

import (
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     string
		strategy Strategy
	}{
		{
			name:     "empty input",
			input:    "",
			want:     "",
			strategy: StrategyEmpty,
		},
		{
			name:     "whitespace only",
			input:    " \n\t ",
			want:     "",
			strategy: StrategyEmpty,
		},
		{
			name:     "bare document",
			input:    "<!DOCTYPE html><html><body>Hi</body></html>",
			want:     "<!DOCTYPE html><html><body>Hi</body></html>",
			strategy: StrategyDocument,
		},
		{
			name:     "fenced document with preamble",
			input:    "Sure! ```html\n<!DOCTYPE html><html><body>Hi</body></html>\n```",
			want:     "<!DOCTYPE html><html><body>Hi</body></html>",
			strategy: StrategyDocument,
		},
		{
			name:     "case insensitive tags",
			input:    "here:\n<!doctype HTML><HTML><body>x</body></HTML> trailing",
			want:     "<!doctype HTML><HTML><body>x</body></HTML>",
			strategy: StrategyDocument,
		},
		{
			name:     "html open without doctype",
			input:    "  <html lang=\"en\"><body></body></html>\n",
			want:     "<html lang=\"en\"><body></body></html>",
			strategy: StrategyDocument,
		},
		{
			name:     "first closing tag wins",
			input:    "<html><body>a</body></html> and <html><body>b</body></html>",
			want:     "<html><body>a</body></html>",
			strategy: StrategyDocument,
		},
		{
			name:     "plain text passes through trimmed",
			input:    "  just some text  ",
			want:     "just some text",
			strategy: StrategyRaw,
		},
		{
			name:     "html fence without document tags",
			input:    "Here you go:\n```html\n<div class=\"p-4\">card</div>\n```\nEnjoy",
			want:     "Here you go:\n```html\n<div class=\"p-4\">card</div>\n```\nEnjoy",
			strategy: StrategyRaw,
		},
		{
			name:     "truncated document in html fence",
			input:    "```html\n<!DOCTYPE html>\n<html><body><p>cut off\n```",
			want:     "<!DOCTYPE html>\n<html><body><p>cut off",
			strategy: StrategyPrefix,
		},
		{
			name:     "truncated document in generic fence",
			input:    "Result:\n```\n<html><body>partial\n```",
			want:     "<html><body>partial",
			strategy: StrategyPrefix,
		},
		{
			name:     "truncated raw document",
			input:    "<!DOCTYPE html><html><head><title>t</title></head><body>",
			want:     "<!DOCTYPE html><html><head><title>t</title></head><body>",
			strategy: StrategyPrefix,
		},
		{
			name:     "empty html fence falls back to raw",
			input:    "```html\n```",
			want:     "```html\n```",
			strategy: StrategyRaw,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.input)
			if got.HTML != tt.want {
				t.Errorf("Extract(%q).HTML = %q, want %q", tt.input, got.HTML, tt.want)
			}
			if got.Strategy != tt.strategy {
				t.Errorf("Extract(%q).Strategy = %q, want %q", tt.input, got.Strategy, tt.strategy)
			}
		})
	}
}

func TestHTML_JoinedChunksPreserveOrder(t *testing.T) {
	parts := []string{"<!DOCTYPE htm", "l><html></html>"}
	got := HTML(strings.Join(parts, ""))
	if got != "<!DOCTYPE html><html></html>" {
		t.Errorf("HTML() = %q, want %q", got, "<!DOCTYPE html><html></html>")
	}
}

func TestHTML_Idempotent(t *testing.T) {
	inputs := []string{
		"<!DOCTYPE html><html><body>Hi</body></html>",
		"Sure! ```html\n<!DOCTYPE html><html><body>Hi</body></html>\n```",
		"```\n<html><body>x</body></html>\n```",
		"noise <html><head></head><body>y</body></html> more noise",
	}

	for _, input := range inputs {
		once := HTML(input)
		twice := HTML(once)
		if once != twice {
			t.Errorf("HTML not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestHTML_AlwaysTrimmed(t *testing.T) {
	inputs := []string{
		"\n\n<html>\n</html>\n\n",
		"```html\n\n  <div>x</div>  \n\n```",
		"\t text \t",
	}

	for _, input := range inputs {
		got := HTML(input)
		if got != strings.TrimSpace(got) {
			t.Errorf("HTML(%q) = %q, not trimmed", input, got)
		}
		if got == "" {
			t.Errorf("HTML(%q) returned empty string for non-empty input", input)
		}
	}
}
