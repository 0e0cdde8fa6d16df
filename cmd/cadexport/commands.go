package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/woozymasta/cadexport/internal/geo"
	"github.com/woozymasta/cadexport/internal/processor"
	"github.com/woozymasta/cadexport/internal/server"
	"github.com/woozymasta/cadexport/internal/watcher"

	"github.com/rs/zerolog/log"
)

type exportCommand struct {
	Formats []string `short:"t" long:"format" description:"Export format, repeatable (default: all)"`
	Subpath string   `short:"p" long:"subpath" description:"Subdirectory below the output root instead of the format name"`

	Args struct {
		Files []string `positional-arg-name:"FILE" required:"1"`
	} `positional-args:"yes"`
}

func (c *exportCommand) Execute(_ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	formats, err := parseFormats(c.Formats)
	if err != nil {
		return err
	}

	proc := processor.New(cfg)
	failed := 0

	for _, path := range c.Args.Files {
		results, err := proc.ProcessFile(path, formats, c.Subpath)
		for _, res := range results {
			fmt.Println(res.Path)
		}
		if err != nil {
			log.Error().Err(err).Str("source", path).Msg("Export failed")
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d export(s) failed", failed)
	}

	rememberOutput(cfg)
	return nil
}

type batchCommand struct {
	Formats []string `short:"t" long:"format" description:"Export format, repeatable (default: all)"`
	Name    string   `short:"n" long:"name" description:"Output file name without extension" default:"batch"`
	Subpath string   `short:"p" long:"subpath" description:"Subdirectory below the output root instead of the format name"`

	Args struct {
		Files []string `positional-arg-name:"FILE" required:"1"`
	} `positional-args:"yes"`
}

func (c *batchCommand) Execute(_ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	formats, err := parseFormats(c.Formats)
	if err != nil {
		return err
	}

	var features []geo.Feature
	for _, path := range c.Args.Files {
		loaded, err := geo.LoadFeatures(path)
		if err != nil {
			return err
		}
		features = append(features, loaded...)
	}

	proc := processor.New(cfg)
	for _, format := range formats {
		res, err := proc.ExportBatch(features, c.Name, format, c.Subpath)
		if err != nil {
			return err
		}
		fmt.Println(res.Path)
	}

	rememberOutput(cfg)
	return nil
}

type serveCommand struct {
	Addr string `short:"a" long:"addr" env:"LISTEN_ADDRESS" description:"Address to listen on" default:"127.0.0.1"`
	Port int    `short:"P" long:"port" env:"LISTEN_PORT"    description:"Port to listen on"    default:"8080"`
}

func (c *serveCommand) Execute(_ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	srvCtx := server.NewServerContext(cfg)
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", c.Addr, c.Port),
		Handler:           srvCtx.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	log.Info().Str("addr", srv.Addr).Msg("Web server started")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

type watchCommand struct {
	Formats  []string      `short:"t" long:"format" description:"Export format, repeatable (default: all)"`
	Debounce time.Duration `short:"d" long:"debounce" description:"Quiet period before a changed file is exported" default:"250ms"`

	Args struct {
		Dir string `positional-arg-name:"DIR" required:"yes"`
	} `positional-args:"yes"`
}

func (c *watchCommand) Execute(_ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	formats, err := parseFormats(c.Formats)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := watcher.New(c.Args.Dir, formats, processor.New(cfg), watcher.WithDebounce(c.Debounce))
	return w.Run(ctx)
}

