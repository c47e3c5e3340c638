package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

// arrayPattern grabs the outermost JSON array when the model wraps it in
// prose or a markdown code fence.
var arrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// ParseIngredients parses a model response into a normalized ingredient list.
//
// Tolerated response shapes:
//   - a bare JSON array of strings
//   - the array inside a markdown code fence or surrounding prose
//   - array elements as objects with a "name" field
//
// Entries are trimmed and deduplicated case-insensitively, order preserved.
// Unparseable input yields an empty list.
func ParseIngredients(raw string) []string {
	items := decodeArray(raw)
	if items == nil {
		if match := arrayPattern.FindString(raw); match != "" {
			items = decodeArray(match)
		}
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		name := itemName(item)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

func decodeArray(s string) []json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &items); err != nil {
		return nil
	}
	return items
}

// itemName extracts the ingredient name from one array element, which may be
// a string or an object with a "name" field.
func itemName(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return strings.TrimSpace(obj.Name)
	}
	return ""
}
