package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

type testTable [][]string

func (t testTable) Header() []string { return []string{"engine", "status"} }
func (t testTable) Rows() [][]string { return t }

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{in: "", want: FormatText},
		{in: "text", want: FormatText},
		{in: "JSON", want: FormatJSON},
		{in: " csv ", want: FormatCSV},
		{in: "yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTextFormatter(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		table := testTable{{"gemini", "success"}, {"openrouter", "error"}}
		if err := (&TextFormatter{}).FormatTo(&buf, table); err != nil {
			t.Fatalf("FormatTo() error = %v", err)
		}

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		if len(lines) != 3 {
			t.Fatalf("lines = %q", lines)
		}
		if !strings.HasPrefix(lines[0], "engine  ") || !strings.HasPrefix(lines[2], "openrouter  error") {
			t.Errorf("unaligned output %q", buf.String())
		}
	})

	t.Run("plain value", func(t *testing.T) {
		var buf bytes.Buffer
		if err := (&TextFormatter{}).FormatTo(&buf, "done"); err != nil {
			t.Fatalf("FormatTo() error = %v", err)
		}
		if buf.String() != "done\n" {
			t.Errorf("FormatTo() = %q", buf.String())
		}
	})
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]int{"count": 2}
	if err := NewFormatter(FormatJSON).FormatTo(&buf, data); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	var got map[string]int
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if got["count"] != 2 {
		t.Errorf("count = %d", got["count"])
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("expected indented output")
	}
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	table := testTable{{"gemini", `quoted "x"`}}
	if err := NewFormatter(FormatCSV).FormatTo(&buf, table); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	want := "engine,status\ngemini,\"quoted \"\"x\"\"\"\n"
	if buf.String() != want {
		t.Errorf("FormatTo() = %q, want %q", buf.String(), want)
	}

	if err := NewFormatter(FormatCSV).FormatTo(&buf, "not a table"); err == nil {
		t.Error("expected error for non-tabular data")
	}
}
