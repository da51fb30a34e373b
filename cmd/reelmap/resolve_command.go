package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"

	"reelmap/internal/adapters/export"
	"reelmap/internal/app"
	"reelmap/internal/domain"
	"reelmap/internal/shared"
)

const extractionFile = "extraction.json"

type shortcodeResult struct {
	arg       string
	code      string
	report    app.Report
	invalid   bool
	err       error
	published bool
}

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var parallel int
	cmd := &cobra.Command{
		Use:   "resolve <shortcode|url>...",
		Short: "Resolve the extracted place candidates of one or more reels",
		Long: "Reads OUT_DIR/reels/<shortcode>/extraction.json, resolves every candidate\n" +
			"against the places provider, and writes matches.json, results_full.csv and\n" +
			"results_mymaps.csv next to it.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.Context(), ctx.ensureConfig(), cmd.OutOrStdout(), args, parallel)
		},
	}
	cmd.Flags().IntVar(&parallel, "parallel", 1, "Reels resolved at the same time")
	return cmd
}

func runResolve(ctx context.Context, cfg shared.Config, out io.Writer, args []string, parallel int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	d, err := buildDeps(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("configuration error")
		return err
	}
	defer d.Close()

	log.Info().
		Str("out_dir", cfg.OutDir).
		Str("region", cfg.RegionCode).
		Int("workers", cfg.Workers).
		Int("reels", len(args)).
		Msg("resolve starting")

	if parallel <= 0 {
		parallel = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]shortcodeResult, len(args))
	sem := semaphore.NewWeighted(int64(parallel))
	var wg sync.WaitGroup
	var fatalOnce sync.Once
	var fatal error

	for i, arg := range args {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = shortcodeResult{arg: arg, err: err}
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			r := resolveOne(ctx, d, cfg, arg)
			if errors.Is(r.err, domain.ErrConfiguration) {
				fatalOnce.Do(func() { fatal = r.err; cancel() })
			}
			results[i] = r
		}()
	}
	wg.Wait()

	if fatal != nil {
		log.Error().Err(fatal).Msg("configuration error")
		return fatal
	}

	fmt.Fprintln(out, summaryTable(results))

	code := exitOK
	for _, r := range results {
		switch {
		case r.invalid:
			code = exitInvalidURL
		case r.err != nil && code == exitOK:
			code = exitAnyFailed
		}
	}
	log.Info().Int("exit_code", code).Msg("resolve completed")
	if code != exitOK {
		return exitError{code: code}
	}
	return nil
}

func resolveOne(ctx context.Context, d *deps, cfg shared.Config, arg string) shortcodeResult {
	r := shortcodeResult{arg: arg}
	code, err := shared.ResolveShortcode(arg)
	if err != nil {
		log.Error().Err(err).Str("arg", arg).Msg("invalid url")
		r.invalid, r.err = true, err
		return r
	}
	r.code = code
	logger := log.With().Str("shortcode", code).Logger()

	ex, err := readExtraction(d.trace.Dir(code), code)
	if err != nil {
		logger.Error().Err(err).Msg("read extraction failed")
		r.err = err
		return r
	}

	rep, err := d.resolver.Run(ctx, ex)
	r.report = rep
	if err != nil {
		logger.Error().Err(err).Msg("resolution failed")
		r.err = err
		return r
	}

	if err := export.WriteFiles(d.trace.Dir(code), rep.Matches); err != nil {
		logger.Error().Err(err).Msg("csv export failed")
		r.err = err
		return r
	}

	if d.publish != nil {
		if err := d.publish.Publish(ctx, rep); err != nil {
			logger.Error().Err(err).Msg("publish failed")
			r.err = err
			return r
		}
		r.published = true
	}
	logger.Info().Str("dir", d.trace.Dir(code)).Msg("artifacts written")
	return r
}

// readExtraction loads the understanding stage's output for code. A file
// without a shortcode inherits the directory's.
func readExtraction(dir, code string) (domain.Extraction, error) {
	b, err := os.ReadFile(filepath.Join(dir, extractionFile))
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("read %s: %w", extractionFile, err)
	}
	var ex domain.Extraction
	if err := json.Unmarshal(b, &ex); err != nil {
		return domain.Extraction{}, fmt.Errorf("decode %s: %w", extractionFile, err)
	}
	if ex.SourceShortcode == "" {
		ex.SourceShortcode = code
	}
	if ex.SourceShortcode != code {
		return domain.Extraction{}, fmt.Errorf("%s belongs to %q, not %q", extractionFile, ex.SourceShortcode, code)
	}
	return ex, nil
}

func summaryTable(results []shortcodeResult) string {
	headers := []string{"Reel", "Candidates", "Matched", "Unmatched", "Dropped", "Status"}
	aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		label := r.code
		if label == "" {
			label = r.arg
		}
		var unmatched, dropped int
		for _, e := range r.report.Trace {
			switch e.State {
			case domain.StateUnmatched:
				unmatched++
			case domain.StateDropped:
				dropped++
			}
		}
		status := "ok"
		switch {
		case r.invalid:
			status = "invalid url"
		case r.err != nil:
			status = "failed: " + r.err.Error()
		case r.published:
			status = "ok, published"
		}
		rows = append(rows, []string{
			label,
			strconv.Itoa(len(r.report.Trace)),
			strconv.Itoa(len(r.report.Matches)),
			strconv.Itoa(unmatched),
			strconv.Itoa(dropped),
			status,
		})
	}
	return renderTable(headers, rows, aligns)
}
