package main

import (
	"os"

	"github.com/woozymasta/cadexport/internal/config"
	"github.com/woozymasta/cadexport/internal/export"
	"github.com/woozymasta/cadexport/internal/logger"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile   string `short:"c" long:"config"        env:"CADEXPORT_CONFIG"      description:"Path to configuration file" default:"cadexport.yaml"`
	OutputDir    string `short:"o" long:"output"        env:"CADEXPORT_OUTPUT"      description:"Output root directory (overrides config)"`
	CRS          string `long:"crs"                     env:"CADEXPORT_CRS"         description:"CRS name written to GeoJSON (overrides config)"`
	Compression  string `short:"z" long:"compression"   env:"CADEXPORT_COMPRESSION" description:"Compress output files" choice:"none" choice:"gzip" choice:"zstd"`
	SwapAxes     bool   `short:"s" long:"swap-axes"     description:"Write coordinates as latitude,longitude (CSV header follows)"`
	OmitAttrs    bool   `long:"omit-attrs"              description:"Write empty GeoJSON properties"`
	KeepExisting bool   `short:"k" long:"keep-existing" description:"Keep existing output files instead of overwriting them"`
	Remember     bool   `short:"r" long:"remember"      description:"Store the output directory in the config file after a successful export"`
}

var opts Options

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		opts.Logger.Setup()
		return cmd.Execute(args)
	}

	mustAddCommand(parser, "export", "Export feature files",
		"Export every feature file in the requested formats. Files with several features are merged into one batch file per format.",
		&exportCommand{})
	mustAddCommand(parser, "batch", "Merge features of several files into one file",
		"Merge the features of all given files into one CSV or GeoJSON file. KML is written per feature.",
		&batchCommand{})
	mustAddCommand(parser, "serve", "Serve the export API over HTTP",
		"Serve POST /api/export/{csv,geojson,kml} and GET /api/formats.",
		&serveCommand{})
	mustAddCommand(parser, "watch", "Export feature files appearing in a directory",
		"Watch a directory and export every feature file created or modified in it.",
		&watchCommand{})

	// command errors are printed by the parser
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

func mustAddCommand(parser *flags.Parser, name, short, long string, data any) {
	if _, err := parser.AddCommand(name, short, long, data); err != nil {
		panic(err)
	}
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	if opts.OutputDir != "" {
		cfg.OutputDir = opts.OutputDir
	}
	if opts.CRS != "" {
		cfg.CRS = opts.CRS
	}
	if opts.Compression != "" {
		if _, err := export.ParseCompression(opts.Compression); err != nil {
			return nil, err
		}
		cfg.Compression = opts.Compression
	}
	cfg.SwapAxes = cfg.SwapAxes || opts.SwapAxes
	cfg.OmitAttrs = cfg.OmitAttrs || opts.OmitAttrs
	cfg.KeepExisting = cfg.KeepExisting || opts.KeepExisting

	log.Debug().
		Str("config", opts.ConfigFile).
		Str("output", cfg.OutputDir).
		Str("crs", cfg.CRS).
		Bool("swap_axes", cfg.SwapAxes).
		Msg("Configuration loaded")

	return cfg, nil
}

// rememberOutput persists the output directory when --remember is set.
func rememberOutput(cfg *config.Config) {
	if !opts.Remember {
		return
	}

	stored, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Error().Err(err).Msg("Failed to reload configuration")
		return
	}
	stored.OutputDir = cfg.OutputDir

	if err := config.Save(opts.ConfigFile, stored); err != nil {
		log.Error().Err(err).Str("config", opts.ConfigFile).Msg("Failed to save output directory")
		return
	}

	log.Debug().Str("output", cfg.OutputDir).Msg("Output directory remembered")
}

func parseFormats(names []string) ([]export.Format, error) {
	if len(names) == 0 {
		return export.Formats, nil
	}

	formats := make([]export.Format, 0, len(names))
	seen := make(map[export.Format]bool)
	for _, name := range names {
		format, err := export.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if seen[format] {
			continue
		}
		seen[format] = true
		formats = append(formats, format)
	}

	return formats, nil
}
