package output

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type sample struct {
	Name    string    `json:"name"`
	Slot    int       `json:"slot_size"`
	Secret  string    `json:"-"`
	Empty   string    `json:"empty,omitempty"`
	At      time.Time `json:"at"`
	private string
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"table", FormatText, false},
		{"JSON", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("NewFormatter(json) should return *JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML).(*YAMLFormatter); !ok {
		t.Error("NewFormatter(yaml) should return *YAMLFormatter")
	}
	if _, ok := NewFormatter(FormatText).(*TextFormatter); !ok {
		t.Error("NewFormatter(text) should return *TextFormatter")
	}
}

func TestTextFormatter_Struct(t *testing.T) {
	var buf bytes.Buffer
	data := sample{Name: "qreader", Slot: 5, Secret: "hidden", private: "x"}
	if err := (&TextFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"name:", "qreader", "slot_size:", "5", "empty:", "at:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Error("json:\"-\" field should not be printed")
	}
	if strings.Contains(out, "private") {
		t.Error("unexported field should not be printed")
	}
}

func TestTextFormatter_MapSorted(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]any{"zeta": 1, "alpha": "a", "mid": true}
	if err := (&TextFormatter{}).Format(&buf, data); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "alpha:") || !strings.HasPrefix(lines[2], "zeta:") {
		t.Errorf("keys not sorted:\n%s", buf.String())
	}
}

func TestTextFormatter_SliceOfStructs(t *testing.T) {
	var buf bytes.Buffer
	data := []*sample{{Name: "a", Slot: 1}, {Name: "b", Slot: 2}}
	if err := (&TextFormatter{}).Format(&buf, data); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "NAME") || !strings.Contains(lines[0], "SLOT_SIZE") {
		t.Errorf("header = %q", lines[0])
	}
}

func TestTextFormatter_Scalars(t *testing.T) {
	tests := []struct {
		data any
		want string
	}{
		{"plain text", "plain text\n"},
		{42, "42\n"},
		{nil, ""},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := (&TextFormatter{}).Format(&buf, tt.data); err != nil {
			t.Fatal(err)
		}
		if buf.String() != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.data, buf.String(), tt.want)
		}
	}
}

func TestTable_Render(t *testing.T) {
	table := &Table{}
	table.SetHeaders("KEY", "VALUE")
	table.AddRow("slot", "202403011000")

	var buf bytes.Buffer
	if err := table.Render(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "KEY") || !strings.Contains(buf.String(), "202403011000") {
		t.Errorf("Render() = %q", buf.String())
	}

	buf.Reset()
	if err := (&TextFormatter{NoHeaders: true}).Format(&buf, table); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "KEY") {
		t.Error("NoHeaders should suppress the header row")
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, sample{Name: "q", Slot: 5}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `"name": "q"`) || !strings.Contains(out, `"slot_size": 5`) {
		t.Errorf("Format() = %s", out)
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLFormatter{}).Format(&buf, sample{Name: "q", Slot: 5, Secret: "hidden"}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "name: q") || !strings.Contains(out, "slot_size: 5") {
		t.Errorf("Format() = %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("YAML output should honour json:\"-\"")
	}
}
