package ui

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// go test runs with a pipe on stderr, so tags must come back unstyled.
func TestErrorTag_PlainWithoutTerminal(t *testing.T) {
	require.Equal(t, "Error[8] (CompileFailed)", ErrorTag(8, "CompileFailed"))
}

func TestErrorTag_RespectsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	require.Equal(t, "Error[1] (Generic)", ErrorTag(1, "Generic"))
}

func TestHint_PassesTextThrough(t *testing.T) {
	require.Equal(t, "run 'msiforge setup' first", Hint("run 'msiforge setup' first"))
}
