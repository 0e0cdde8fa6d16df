package server

import (
	"github.com/rs/zerolog/log"
	"github.com/woozymasta/cadexport/internal/config"
	"github.com/woozymasta/cadexport/internal/export"
)

// maxBodyBytes caps the size of an uploaded feature document.
const maxBodyBytes = 32 << 20

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Options export.Options

	// Compression is applied to responses of clients that accept it.
	Compression export.Compression
}

// NewServerContext initializes the context from the export configuration.
func NewServerContext(cfg *config.Config) *ServerContext {
	if cfg == nil {
		cfg = config.Default()
	}

	log.Info().
		Str("crs", cfg.CRS).
		Bool("swap_axes", cfg.SwapAxes).
		Str("compression", cfg.Compression).
		Msg("Server context initialized")

	return &ServerContext{
		Options:     cfg.Options(),
		Compression: cfg.CompressionMode(),
	}
}
