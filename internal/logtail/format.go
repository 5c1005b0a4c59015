package logtail

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Entry is one decoded JSON log line.
type Entry struct {
	Time      time.Time
	Level     string
	Component string
	Message   string
	Error     string
	Fields    []Field
}

// Field is an extra key/value pair carried by an Entry.
type Field struct {
	Key   string
	Value string
}

// reserved keys are rendered in the header rather than as fields.
var reserved = map[string]struct{}{
	"time":      {},
	"level":     {},
	"component": {},
	"message":   {},
	"error":     {},
}

// Parse decodes a zerolog JSON line. It reports false for anything that is
// not a JSON object.
func Parse(line string) (Entry, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return Entry{}, false
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return Entry{}, false
	}

	entry := Entry{
		Level:     stringField(raw, "level"),
		Component: stringField(raw, "component"),
		Message:   stringField(raw, "message"),
		Error:     stringField(raw, "error"),
	}
	if ts := stringField(raw, "time"); ts != "" {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			entry.Time = parsed
		}
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		if _, skip := reserved[k]; !skip {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		entry.Fields = append(entry.Fields, Field{Key: k, Value: valueString(raw[k])})
	}
	return entry, true
}

// Format renders an entry as a header line followed by indented detail
// lines:
//
//	2026-01-02 15:04:05 WARN [controller] – fetch failed
//	    - error: fetch failed: api /trending returned status 500
//	    - op: load_trending
func Format(e Entry) string {
	var parts []string
	if !e.Time.IsZero() {
		parts = append(parts, e.Time.In(time.Local).Format("2006-01-02 15:04:05"))
	}
	level := strings.ToUpper(strings.TrimSpace(e.Level))
	if level == "" {
		level = "INFO"
	}
	parts = append(parts, level)
	if c := strings.TrimSpace(e.Component); c != "" {
		parts = append(parts, fmt.Sprintf("[%s]", c))
	}
	header := strings.Join(parts, " ")
	if msg := strings.TrimSpace(e.Message); msg != "" {
		header += " – " + msg
	}

	var b strings.Builder
	b.WriteString(header)
	if e.Error != "" {
		b.WriteString("\n    - error: ")
		b.WriteString(e.Error)
	}
	for _, f := range e.Fields {
		if strings.TrimSpace(f.Value) == "" {
			continue
		}
		b.WriteString("\n    - ")
		b.WriteString(f.Key)
		b.WriteString(": ")
		b.WriteString(f.Value)
	}
	return b.String()
}

// FormatLines decodes and formats raw log lines. Lines that are not JSON
// pass through unchanged.
func FormatLines(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if entry, ok := Parse(line); ok {
			out = append(out, Format(entry))
			continue
		}
		out = append(out, line)
	}
	return out
}

func stringField(raw map[string]any, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	return valueString(v)
}

func valueString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.3f", val), "0"), ".")
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(encoded)
	}
}
