// File: internal/knowledge/engine.go
package knowledge

import (
	"fmt"
	"strings"
)

// Answer maps a free-text query to a response string. The query is
// lower-cased and matched by substring: the first crop whose name occurs in
// the query wins, then the first of its diseases. A crop match without a
// disease match lists the crop's known diseases; no crop match at all falls
// back to a hint naming the known crops. Answer never fails.
func (b *Base) Answer(query string) string {
	q := strings.ToLower(query)
	for _, crop := range b.crops {
		if !strings.Contains(q, crop.Name) {
			continue
		}
		for _, disease := range crop.Diseases {
			if strings.Contains(q, disease.Name) {
				return fmt.Sprintf("%s - %s: %s", capitalize(crop.Name), capitalize(disease.Name), disease.Advisory)
			}
		}
		names := make([]string, 0, len(crop.Diseases))
		for _, disease := range crop.Diseases {
			names = append(names, disease.Name)
		}
		return fmt.Sprintf("%s Info: %s", capitalize(crop.Name), strings.Join(names, ", "))
	}
	return b.fallback()
}

// fallback is the fixed no-match reply, e.g. "Sorry, I couldn't find
// information. Please ask about corn, potato, rice, or wheat diseases."
func (b *Base) fallback() string {
	names := b.CropNames()
	var list string
	switch len(names) {
	case 1:
		list = names[0]
	default:
		list = strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
	}
	return fmt.Sprintf("Sorry, I couldn't find information. Please ask about %s diseases.", list)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
