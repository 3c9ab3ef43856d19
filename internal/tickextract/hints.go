package tickextract

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const hintsField = "enemies"

var indexedHint = regexp.MustCompile(`^enemies\[(\d+)\]$`)

// ParseHints collects enemy hero hints from form values. Accepted shapes are a
// repeated "enemies" field, a single "enemies" holding a JSON array or a comma or
// newline separated list, "enemies[N]" fields and repeated "enemies[]" fields.
// Hints are trimmed and de-duplicated case-insensitively in first-seen order.
func ParseHints(form map[string][]string) []string {
	var raw []string

	switch values := form[hintsField]; {
	case len(values) > 1:
		raw = append(raw, values...)
	case len(values) == 1:
		raw = append(raw, splitHintList(values[0])...)
	}

	type indexed struct {
		n     int
		value string
	}
	var byIndex []indexed
	for key, values := range form {
		m := indexedHint.FindStringSubmatch(key)
		if m == nil || len(values) == 0 {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		byIndex = append(byIndex, indexed{n: n, value: values[0]})
	}
	sort.Slice(byIndex, func(i, j int) bool { return byIndex[i].n < byIndex[j].n })
	for _, h := range byIndex {
		raw = append(raw, h.value)
	}

	raw = append(raw, form[hintsField+"[]"]...)
	return dedupe(raw)
}

func splitHintList(s string) []string {
	var arr []any
	if err := json.Unmarshal([]byte(s), &arr); err == nil {
		out := make([]string, 0, len(arr))
		for _, v := range arr {
			switch t := v.(type) {
			case string:
				out = append(out, t)
			case nil:
			default:
				b, _ := json.Marshal(t)
				out = append(out, string(b))
			}
		}
		return out
	}
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' })
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, h := range in {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		key := strings.ToLower(h)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, h)
	}
	return out
}
