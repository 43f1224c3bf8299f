package classifier

import (
	"strings"

	"github.com/bcaldwell/statementimporter/pkg/statement"
)

// Annotated UPI notes carry single letter directives followed by a value,
// e.g. "i food p raj l hsr" reads as category food, party raj, location hsr.
var directiveFields = map[string]string{
	"e": "event",
	"i": "category",
	"l": "location",
	"p": "party",
	"r": "description",
}

type annotationField struct {
	name  string
	value string
}

type span struct {
	start, end int
}

// decodeAnnotation splits note into directive fields. The note is scanned in
// two character chunks; a chunk is a directive anchor when it trims to a
// single directive letter and is separated by a space from what follows it.
// Later directives of the same kind replace earlier ones.
func decodeAnnotation(note string) []annotationField {
	runes := []rune(note)

	var spans []span
	for i := 0; i+2 <= len(runes); i += 2 {
		chunk := string(runes[i : i+2])
		if !isAnchor(runes, i) {
			continue
		}

		if len(spans) > 0 {
			end := i
			if strings.HasSuffix(chunk, " ") {
				end = i - 1
			}
			spans[len(spans)-1].end = end
		}

		start := i
		if strings.HasPrefix(chunk, " ") {
			start = i + 1
		}
		spans = append(spans, span{start: start, end: len(runes)})
	}

	fields := []annotationField{}
	seen := map[string]int{}

	for _, s := range spans {
		if s.end < s.start {
			continue
		}

		words := strings.Split(string(runes[s.start:s.end]), " ")
		name, ok := directiveFields[strings.ToLower(words[0])]
		if !ok {
			continue
		}

		field := annotationField{name: name, value: strings.TrimSpace(strings.Join(words[1:], " "))}
		if i, ok := seen[name]; ok {
			fields[i] = field
			continue
		}
		seen[name] = len(fields)
		fields = append(fields, field)
	}

	return fields
}

func isAnchor(runes []rune, i int) bool {
	chunk := string(runes[i : i+2])

	trimmed := strings.ToLower(strings.TrimSpace(chunk))
	if _, ok := directiveFields[trimmed]; !ok || len([]rune(trimmed)) != 1 {
		return false
	}

	if strings.HasSuffix(chunk, " ") {
		return true
	}

	next := i + 2
	return next+2 <= len(runes) && runes[next] == ' '
}

// categorizeAnnotation files the row under the annotated category, unknown
// when there is none. Every other directive value becomes a tag and is kept
// in the additional meta under its field name.
func (c *Classifier) categorizeAnnotation(ctx Context) Context {
	category := statement.CategoryUnknown

	for _, field := range decodeAnnotation(ctx.LastPart()) {
		if field.name == "category" {
			if parsed, ok := statement.ParseCategory(field.value); ok {
				category = parsed
			} else if field.value != "" {
				ctx.setMeta(field.name, statement.StringPtr(field.value))
			}
			continue
		}

		if field.value == "" {
			continue
		}
		ctx.addTag(field.value)
		ctx.setMeta(field.name, statement.StringPtr(field.value))
	}

	ctx.addCategory(category)
	ctx.tagLastPartIfUntagged()

	return ctx
}
