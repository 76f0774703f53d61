package content

import (
	"fmt"
	"sort"
	"strings"
)

// FlattenText walks a decoded JSON value and joins every scalar into plain
// text, map keys in stable order. Used to turn typed payloads into embedding
// documents.
func FlattenText(v interface{}) string {
	var b strings.Builder
	flattenInto(&b, v)
	return strings.TrimSpace(b.String())
}

func flattenInto(b *strings.Builder, v interface{}) {
	switch val := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flattenInto(b, val[k])
		}
	case []interface{}:
		for _, item := range val {
			flattenInto(b, item)
		}
	case string:
		if strings.TrimSpace(val) != "" {
			b.WriteString(val)
			b.WriteString("\n")
		}
	case float64:
		fmt.Fprintf(b, "%v\n", val)
	case bool:
		fmt.Fprintf(b, "%v\n", val)
	}
}
