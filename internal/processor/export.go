// Package processor runs exports: encode, resolve the output path and write the file.
package processor

import (
	"errors"
	"fmt"
	"os"

	"github.com/woozymasta/cadexport/internal/config"
	"github.com/woozymasta/cadexport/internal/export"
	"github.com/woozymasta/cadexport/internal/geo"

	"github.com/rs/zerolog/log"
)

// ErrUnnamedFeature is returned when no output file name can be derived from a feature.
var ErrUnnamedFeature = errors.New("feature has no file name, label or cadastral number")

// Processor exports features below the configured output root.
type Processor struct {
	cfg *config.Config
}

// Result describes one written (or kept) export file.
type Result struct {
	Path    string
	Format  export.Format
	Kept    bool // file existed and KeepExisting was set
	Encoded int  // features that contributed output
	Skipped []string
}

// New creates a processor for cfg.
func New(cfg *config.Config) *Processor {
	if cfg == nil {
		cfg = config.Default()
	}

	return &Processor{cfg: cfg}
}

// Config returns the configuration the processor writes with.
func (p *Processor) Config() *config.Config { return p.cfg }

// ExportFeature writes a single feature. A feature without coordinates fails with
// export.ErrEmptyGeometry and no file is created.
func (p *Processor) ExportFeature(f *geo.Feature, format export.Format, subpath string) (Result, error) {
	doc, err := export.Encode(format, f, p.cfg.Options())
	if err != nil {
		return Result{}, err
	}

	name := f.LogicalName()
	if name == "" {
		return Result{}, ErrUnnamedFeature
	}

	res, err := p.write(export.Output{Root: p.cfg.OutputDir, Name: name, Format: format, Subpath: subpath}, doc)
	if err != nil {
		return Result{}, err
	}
	res.Encoded = 1

	return res, nil
}

// ExportBatch merges features into one CSV or GeoJSON file called name.
// KML has no batch form, so every feature gets its own file instead and the
// last written result is returned.
func (p *Processor) ExportBatch(features []geo.Feature, name string, format export.Format, subpath string) (Result, error) {
	if format == export.FormatKML {
		return p.exportEach(features, format, subpath)
	}

	if name == "" {
		return Result{}, fmt.Errorf("batch export needs a file name")
	}

	doc, stats, err := export.EncodeBatch(format, features, p.cfg.Options())
	if err != nil {
		return Result{}, err
	}

	res, err := p.write(export.Output{Root: p.cfg.OutputDir, Name: geo.SanitizeFileName(name), Format: format, Subpath: subpath}, doc)
	if err != nil {
		return Result{}, err
	}
	res.Encoded = stats.Encoded
	res.Skipped = stats.Skipped

	log.Info().
		Str("path", res.Path).
		Int("features", len(features)).
		Int("encoded", stats.Encoded).
		Int("skipped", len(stats.Skipped)).
		Msg("Batch export finished")

	return res, nil
}

func (p *Processor) exportEach(features []geo.Feature, format export.Format, subpath string) (Result, error) {
	var last Result
	var skipped []string
	encoded := 0

	for i := range features {
		res, err := p.ExportFeature(&features[i], format, subpath)
		if skippable(err) {
			name := features[i].LogicalName()
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			log.Warn().Err(err).Str("format", string(format)).Str("feature", name).Msg("Feature skipped in batch export")
			skipped = append(skipped, name)
			continue
		}
		if err != nil {
			return Result{}, err
		}
		last = res
		encoded++
	}

	last.Format = format
	last.Encoded = encoded
	last.Skipped = skipped

	return last, nil
}

// write resolves the output path and writes doc, replacing an existing file
// unless KeepExisting is set.
func (p *Processor) write(out export.Output, doc export.Document) (Result, error) {
	path, err := export.ResolvePath(out)
	if err != nil {
		return Result{}, err
	}

	comp := p.cfg.CompressionMode()
	if _, err := os.Stat(path + comp.Suffix()); err == nil && p.cfg.KeepExisting {
		log.Debug().Str("path", path+comp.Suffix()).Msg("Export file exists, skipping")
		return Result{Path: path + comp.Suffix(), Format: out.Format, Kept: true}, nil
	}

	written, err := export.WriteFile(path, doc, comp)
	if err != nil {
		return Result{}, err
	}

	log.Info().
		Str("path", written).
		Str("format", string(out.Format)).
		Msg("Export file saved")

	return Result{Path: written, Format: out.Format}, nil
}

// skippable reports whether a per-feature error leaves the rest of a batch intact.
func skippable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, export.ErrEmptyGeometry) || errors.Is(err, ErrUnnamedFeature) {
		return true
	}

	var encErr *export.EncodingError
	return errors.As(err, &encErr)
}
