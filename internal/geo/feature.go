package geo

import (
	"fmt"
	"regexp"
	"strings"
)

// unsafeFileChars matches characters not allowed in file names on common platforms.
var unsafeFileChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// Feature is a cadastral object handed over by the geometry resolver.
// Coordinates are kept as the raw decoded tree and normalized on export.
type Feature struct {
	Geometry   *Geometry      `json:"geometry" yaml:"geometry"`
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
	Attrs      map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Label      string         `json:"label,omitempty" yaml:"label,omitempty"`
	FileName   string         `json:"file_name,omitempty" yaml:"file_name,omitempty"`
}

// Geometry is the geometry payload of a feature.
type Geometry struct {
	Type        string `json:"type" yaml:"type"`
	Coordinates any    `json:"coordinates" yaml:"coordinates"`
}

// Attributes returns the feature attribute mapping, preferring properties over attrs.
func (f *Feature) Attributes() map[string]any {
	if f.Properties != nil {
		return f.Properties
	}

	return f.Attrs
}

// Kind returns the upper-cased geometry type, or an empty string without geometry.
func (f *Feature) Kind() string {
	if f.Geometry == nil {
		return ""
	}

	return strings.ToUpper(strings.TrimSpace(f.Geometry.Type))
}

// CadastralNumber returns attrs.options.cad_num (or properties.options.cad_num) if present.
func (f *Feature) CadastralNumber() string {
	for _, attrs := range []map[string]any{f.Properties, f.Attrs} {
		options, ok := attrs["options"].(map[string]any)
		if !ok {
			continue
		}
		if v, ok := options["cad_num"]; ok && v != nil {
			return fmt.Sprint(v)
		}
	}

	return ""
}

// DisplayName returns the label used for KML folders: label, attrs.label, then cad_num.
func (f *Feature) DisplayName() string {
	if f.Label != "" {
		return f.Label
	}
	if v, ok := f.Attributes()["label"].(string); ok && v != "" {
		return v
	}

	return f.CadastralNumber()
}

// LogicalName returns the default export file name without extension.
// An empty string means the feature carries nothing to derive a name from.
func (f *Feature) LogicalName() string {
	if f.FileName != "" {
		return SanitizeFileName(f.FileName)
	}

	return SanitizeFileName(f.DisplayName())
}

// SanitizeFileName replaces characters that are invalid in file names with '-'.
func SanitizeFileName(name string) string {
	return unsafeFileChars.ReplaceAllString(strings.TrimSpace(name), "-")
}
