package wix

import (
	_ "embed"
	"io"
	"regexp"
	"strings"
)

//go:embed templates/main.wxs
var defaultTemplate string

// GUIDPlaceholder is left untouched by rendering. Upgrade and component
// GUIDs must stay stable for the lifetime of a product, so they are supplied
// by hand rather than generated.
const GUIDPlaceholder = "replace-with-a-guid"

var placeholderRe = regexp.MustCompile(`\{\{([a-z0-9-]+)\}\}`)

// Render substitutes {{name}} placeholders in template text with values from
// vars. The reserved {{replace-with-a-guid}} token is emitted verbatim; any
// other placeholder without a value is an UnresolvedPlaceholder error.
// Rendering is deterministic: the same text and vars always produce the same
// output.
func Render(text string, vars Variables) (string, error) {
	var b strings.Builder
	last := 0
	for _, m := range placeholderRe.FindAllStringSubmatchIndex(text, -1) {
		b.WriteString(text[last:m[0]])
		name := text[m[2]:m[3]]
		switch {
		case name == GUIDPlaceholder:
			b.WriteString(text[m[0]:m[1]])
		default:
			v, ok := vars[name]
			if !ok {
				return "", newError(KindUnresolvedPlaceholder, "no value available for placeholder {{%s}}", name)
			}
			b.WriteString(v)
		}
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

// DefaultTemplate returns the embedded WiX authoring template.
func DefaultTemplate() string {
	return defaultTemplate
}

// WriteTemplate renders the embedded template with vars and writes the
// result to w. The output is byte-identical to what Init writes for the
// same context.
func WriteTemplate(w io.Writer, vars Variables) error {
	rendered, err := Render(defaultTemplate, vars)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, rendered); err != nil {
		return ioError(err, "failed to write template")
	}
	return nil
}
