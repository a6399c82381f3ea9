package wix

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testVars() Variables {
	return Variables{
		"product-name": "Hello World",
		"binary-name":  "hello",
		"version":      "1.2.3",
		"description":  "A sample application",
		"manufacturer": "Acme Corp",
		"binary-path":  `build\bin\hello.exe`,
	}
}

func TestRender_SubstitutesPlaceholders(t *testing.T) {
	out, err := Render("{{product-name}} v{{version}} by {{manufacturer}}", testVars())
	require.NoError(t, err)
	require.Equal(t, "Hello World v1.2.3 by Acme Corp", out)
}

func TestRender_LeavesPlainTextAlone(t *testing.T) {
	out, err := Render("no placeholders here", testVars())
	require.NoError(t, err)
	require.Equal(t, "no placeholders here", out)
}

func TestRender_UnknownPlaceholderFails(t *testing.T) {
	_, err := Render("Name='{{no-such-value}}'", testVars())
	requireKind(t, err, KindUnresolvedPlaceholder)
	require.ErrorContains(t, err, "{{no-such-value}}")
}

func TestRender_ReservedGuidTokenPassesThrough(t *testing.T) {
	out, err := Render("UpgradeCode='{{replace-with-a-guid}}'", testVars())
	require.NoError(t, err)
	require.Equal(t, "UpgradeCode='{{replace-with-a-guid}}'", out)
}

func TestRender_UnusedVariablesAreFine(t *testing.T) {
	vars := testVars()
	vars["never-referenced"] = "x"

	out, err := Render("{{version}}", vars)
	require.NoError(t, err)
	require.Equal(t, "1.2.3", out)
}

func TestRender_SubstitutedValuesAreNotRescanned(t *testing.T) {
	vars := testVars()
	vars["description"] = "contains {{version}} literally"

	out, err := Render("{{description}}", vars)
	require.NoError(t, err)
	require.Equal(t, "contains {{version}} literally", out)
}

func TestRender_Deterministic(t *testing.T) {
	first, err := Render(DefaultTemplate(), testVars())
	require.NoError(t, err)
	second, err := Render(DefaultTemplate(), testVars())
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestDefaultTemplate_RendersCompletely(t *testing.T) {
	out, err := Render(DefaultTemplate(), testVars())
	require.NoError(t, err)

	require.Contains(t, out, "Name='Hello World'")
	require.Contains(t, out, "Manufacturer='Acme Corp'")
	require.Contains(t, out, `Source='build\bin\hello.exe'`)
	require.Contains(t, out, "Name='hello.exe'")

	// One reserved token per GUID attribute survives rendering untouched.
	require.Equal(t, 3, strings.Count(out, "{{"+GUIDPlaceholder+"}}"))
	require.NotContains(t, out, "{{product-name}}")
	require.NotContains(t, out, "{{version}}")
}

func TestWriteTemplate_StreamsRendering(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf, testVars()))

	want, err := Render(DefaultTemplate(), testVars())
	require.NoError(t, err)
	require.Equal(t, want, buf.String())
}

func TestWriteTemplate_FailsOnMissingVariable(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTemplate(&buf, Variables{})
	requireKind(t, err, KindUnresolvedPlaceholder)
	require.Zero(t, buf.Len())
}
