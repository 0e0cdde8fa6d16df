// Package server exposes the encoders over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/cadexport/internal/export"
	"github.com/woozymasta/cadexport/internal/geo"
)

// HandleFormats serves the list of supported export formats.
func (s *ServerContext) HandleFormats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(export.Formats)
}

// HandleExport encodes the posted features.
// Path: /api/export/{format}. A single feature is encoded on its own; several
// features are merged into one batch document (CSV and GeoJSON only).
func (s *ServerContext) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format, err := export.ParseFormat(strings.TrimPrefix(r.URL.Path, "/api/export/"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusRequestEntityTooLarge)
		return
	}

	var features []geo.Feature
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		features, err = geo.DecodeYAML(body)
	} else {
		features, err = geo.DecodeJSON(body)
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid feature document: %v", err), http.StatusBadRequest)
		return
	}

	doc, name, err := s.encode(format, features, r.URL.Query().Get("name"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, err := export.Render(doc)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if enc := s.Compression.ContentEncoding(); enc != "" {
		w.Header().Add("Vary", "Accept-Encoding")
		if acceptsEncoding(r, enc) {
			if data, err = s.Compression.Compress(data); err != nil {
				s.writeError(w, err)
				return
			}
			w.Header().Set("Content-Encoding", enc)
		}
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, name+"."+format.Extension()))
	_, _ = w.Write(data)
}

func (s *ServerContext) encode(format export.Format, features []geo.Feature, name string) (export.Document, string, error) {
	if len(features) == 1 {
		if name == "" {
			name = features[0].LogicalName()
		}
		doc, err := export.Encode(format, &features[0], s.Options)
		return doc, fallbackName(name), err
	}

	doc, stats, err := export.EncodeBatch(format, features, s.Options)
	if err != nil {
		return nil, "", err
	}

	log.Debug().
		Int("encoded", stats.Encoded).
		Int("skipped", len(stats.Skipped)).
		Msg("Batch encoded")

	return doc, fallbackName(name), nil
}

func (s *ServerContext) writeError(w http.ResponseWriter, err error) {
	var encErr *export.EncodingError
	switch {
	case errors.Is(err, export.ErrEmptyGeometry):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.As(err, &encErr):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		log.Error().Err(err).Msg("Export request failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

// acceptsEncoding reports whether the Accept-Encoding header lists enc.
func acceptsEncoding(r *http.Request, enc string) bool {
	for _, part := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		token, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(token), enc) {
			continue
		}
		return strings.ReplaceAll(strings.TrimSpace(params), " ", "") != "q=0"
	}

	return false
}

func fallbackName(name string) string {
	name = geo.SanitizeFileName(name)
	if name == "" {
		return "export"
	}

	return name
}
