package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/infratel/telemap/internal/config"
	"github.com/infratel/telemap/internal/export"
	"github.com/infratel/telemap/internal/kml"
	"github.com/infratel/telemap/internal/logger"
	"github.com/infratel/telemap/internal/paging"
	"github.com/infratel/telemap/internal/placemark"
	"github.com/infratel/telemap/internal/region"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input  string `short:"i" long:"in"     description:"Input KML file path or URL. Reads from stdin if empty"`
	Output string `short:"o" long:"out"    description:"Output file path. Writes to stdout if empty"`
	Format string `short:"f" long:"format" description:"Output format" choice:"csv" choice:"xlsx" choice:"kml" choice:"kmz" default:"csv"`
	Kind   string `short:"k" long:"kind"   description:"Placemark kind tag" choice:"pop" choice:"subpop" default:"pop"`
	Minify bool   `short:"m" long:"minify" description:"Minify XML output (kml and kmz formats)"`

	Split       int `short:"s" long:"split"       description:"Split output into chunks of N records (requires --out)"`
	Concurrency int `short:"p" long:"concurrency" env:"CONCURRENCY" description:"Concurrent chunk encoders" default:"4"`

	ConfigFile  string  `short:"c" long:"config" env:"CONFIG_FILE" description:"Path to region configuration file (built-in India region when empty)"`
	Region      string  `short:"r" long:"region" description:"Validate records against this region before export"`
	Strict      bool    `long:"strict"       description:"Treat advisory warnings as failures"`
	Warnings    bool    `long:"warnings"     description:"Log advisory warnings for far-from-center records"`
	ToleranceKm float64 `long:"tolerance-km" description:"Accept records within this distance in km outside the region border"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	doc, err := readInput(opts.Input)
	if err != nil {
		log.Fatal().Err(err).Str("input", opts.Input).Msg("Failed to read input document")
	}

	// Choice tags guarantee these parse.
	kind, _ := placemark.ParseKind(opts.Kind)
	format, _ := export.ParseFormat(opts.Format)

	out, err := kml.Parse(doc, kind)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse document")
	}

	for _, s := range out.Skipped {
		log.Warn().
			Int("index", s.Index).
			Str("name", s.Name).
			Str("reason", s.Reason).
			Msg("Placemark skipped")
	}
	log.Info().
		Int("records", len(out.Records)).
		Int("skipped", len(out.Skipped)).
		Msg("Document parsed")

	if opts.Region != "" {
		validate(out.Records, opts)
	}

	if opts.Split > 0 {
		if opts.Output == "" {
			log.Fatal().Msg("--split requires --out")
		}
		writeChunks(out.Records, format, opts)
		return
	}

	data, err := export.Encode(out.Records, format, export.Options{Minify: opts.Minify})
	if err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	if opts.Output == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			log.Fatal().Err(err).Msg("Failed to write output")
		}
		return
	}

	if err := os.WriteFile(opts.Output, data, 0644); err != nil {
		log.Fatal().Err(err).Str("path", opts.Output).Msg("Failed to write output")
	}
	log.Info().
		Str("path", opts.Output).
		Str("format", string(format)).
		Int("bytes", len(data)).
		Msg("Export written")
}

// readInput loads the document from a URL, a file, or stdin.
func readInput(input string) (string, error) {
	switch {
	case input == "":
		data, err := io.ReadAll(os.Stdin)
		return string(data), err

	case strings.HasPrefix(input, "http://"), strings.HasPrefix(input, "https://"):
		client := &http.Client{Timeout: 15 * time.Second}
		resp, err := client.Get(input)
		if err != nil {
			return "", err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("fetching %s: status %d", input, resp.StatusCode)
		}
		data, err := io.ReadAll(resp.Body)
		return string(data), err

	default:
		data, err := os.ReadFile(input)
		return string(data), err
	}
}

// validate checks every record against the requested region and fails
// the run on hard rejects. Advisory warnings are logged, not fatal,
// unless --strict promotes them.
func validate(records placemark.Collection, opts Options) {
	cfg := config.Default()
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}

	reg, ok := cfg.Resolver().Lookup(opts.Region)
	if !ok {
		log.Fatal().Str("region", opts.Region).Msg("Unknown region")
	}

	vOpts := region.Options{
		StrictMode:        opts.Strict,
		ShowWarnings:      opts.Warnings || opts.Strict,
		AllowNearBorder:   opts.ToleranceKm > 0,
		BorderToleranceKm: opts.ToleranceKm,
	}

	rejected := 0
	for _, r := range records {
		v := reg.ValidatePoint(r.Coordinates, vOpts)
		switch {
		case !v.Valid:
			rejected++
			log.Error().
				Str("id", r.ID).
				Str("name", r.Name).
				Str("message", v.Message).
				Str("suggested_action", v.SuggestedAction).
				Msg("Record outside region")
		case v.Message != "":
			log.Warn().
				Str("id", r.ID).
				Str("name", r.Name).
				Str("message", v.Message).
				Msg("Record advisory")
		}
	}

	if rejected > 0 {
		log.Fatal().
			Int("rejected", rejected).
			Str("region", reg.Name).
			Msg("Validation failed")
	}

	log.Info().Str("region", reg.Name).Msg("All records validated")
}

// writeChunks pages the collection and encodes each page through a
// bounded worker pool, one output file per page.
func writeChunks(records placemark.Collection, format export.Format, opts Options) {
	total := paging.TotalPages(len(records), opts.Split)
	if total == 0 {
		log.Warn().Msg("Nothing to export")
		return
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	ext := filepath.Ext(opts.Output)
	base := strings.TrimSuffix(opts.Output, ext)
	if ext == "" {
		ext = format.Ext()
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)
	failures := make(chan error, total)

	for page := 1; page <= total; page++ {
		wg.Add(1)
		sem <- struct{}{}

		go func(page int) {
			defer wg.Done()
			defer func() { <-sem }()

			lo, hi := paging.Slice(len(records), opts.Split, page)
			data, err := export.Encode(records[lo:hi], format, export.Options{Minify: opts.Minify})
			if err != nil {
				failures <- fmt.Errorf("chunk %d: %w", page, err)
				return
			}

			path := fmt.Sprintf("%s_%03d%s", base, page, ext)
			if err := os.WriteFile(path, data, 0644); err != nil {
				failures <- fmt.Errorf("chunk %d: %w", page, err)
				return
			}

			log.Debug().Str("path", path).Int("records", hi-lo).Msg("Chunk written")
		}(page)
	}

	wg.Wait()
	close(failures)

	failed := 0
	for err := range failures {
		failed++
		log.Error().Err(err).Msg("Chunk export failed")
	}
	if failed > 0 {
		log.Fatal().Int("failed", failed).Int("chunks", total).Msg("Split export failed")
	}

	log.Info().
		Int("chunks", total).
		Int("records", len(records)).
		Str("format", string(format)).
		Msg("Split export written")
}
