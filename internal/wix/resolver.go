package wix

import (
	"strings"

	"github.com/dosanma1/msiforge/internal/manifest"
)

// Variables is the placeholder context used to render authoring sources.
type Variables map[string]string

// Overrides are metadata values that take precedence over the manifest.
// Zero values mean "not set".
type Overrides struct {
	ProductName  string
	BinaryName   string
	Description  string
	Manufacturer string
}

// Resolve merges manifest metadata and overrides into the template context.
// Precedence per field: override, then manifest, and for the manufacturer
// the first manifest author. A mandatory field with no value anywhere is a
// MissingMetadata error.
func Resolve(p *manifest.Project, o Overrides) (Variables, error) {
	productName := o.ProductName
	if productName == "" {
		productName = p.Name
	}
	if productName == "" {
		return nil, newError(KindMissingMetadata, "no product name: set 'name' in %s or pass --product-name", manifest.FileName)
	}

	binaryName := o.BinaryName
	if binaryName == "" {
		binaryName = p.Binary.Name
	}
	if binaryName == "" {
		binaryName = p.Name
	}
	if binaryName == "" {
		return nil, newError(KindMissingMetadata, "no binary name: set 'binary.name' in %s or pass --binary-name", manifest.FileName)
	}

	if p.Version == "" {
		return nil, newError(KindMissingMetadata, "no version: set 'version' in %s", manifest.FileName)
	}

	manufacturer := o.Manufacturer
	if manufacturer == "" && len(p.Authors) > 0 {
		manufacturer = p.Authors[0]
	}
	if manufacturer == "" {
		return nil, newError(KindMissingMetadata, "no manufacturer: set 'authors' in %s or pass --manufacturer", manifest.FileName)
	}

	description := o.Description
	if description == "" {
		description = p.Description
	}

	binDir := p.Binary.Dir
	if binDir == "" {
		binDir = "bin"
	}

	return Variables{
		"product-name": productName,
		"binary-name":  binaryName,
		"version":      p.Version,
		"description":  description,
		"manufacturer": manufacturer,
		"binary-path":  windowsPath(binDir) + `\` + binaryName + ".exe",
	}, nil
}

// windowsPath rewrites a manifest-relative path with the separators the WiX
// tools expect.
func windowsPath(p string) string {
	return strings.ReplaceAll(p, "/", `\`)
}
