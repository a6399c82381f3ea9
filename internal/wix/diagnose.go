package wix

import (
	"bytes"
	"path/filepath"

	"github.com/dosanma1/msiforge/internal/toolchain"
)

// Hint returns a one-line suggestion for known toolset failure signatures,
// or an empty string when the output matches nothing we recognize.
func Hint(e *Error) string {
	if e == nil || e.Tool == "" {
		return ""
	}
	out := e.Output

	switch e.Tool {
	case toolchain.Candle:
		if bytes.Contains(out, []byte(GUIDPlaceholder)) || bytes.Contains(out, []byte("CNDL0027")) {
			return "put a real GUID in every '{{" + GUIDPlaceholder + "}}' placeholder: run 'msiforge init' and edit " +
				filepath.Join(SourceDir, SourceFile)
		}
	case toolchain.Light:
		if bytes.Contains(out, []byte("LGHT0103")) {
			return "a file referenced by the authoring source is missing; compile your project first so the packaged binary exists"
		}
	case toolchain.Signtool:
		if bytes.Contains(out, []byte("No certificates were found")) {
			return "no usable code signing certificate in the local store; import one before signing"
		}
		if bytes.Contains(out, []byte("timestamp server")) {
			return "the timestamp server did not respond; retry, or build without --timestamp"
		}
	}
	return ""
}
