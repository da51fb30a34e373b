package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"reelmap/internal/adapters/observability"
	"reelmap/internal/shared"
)

const (
	exitOK         = 0
	exitAnyFailed  = 2
	exitInvalidURL = 64
)

// exitError carries a process exit code out of a command without printing.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

type commandContext struct {
	outDirFlag  *string
	workersFlag *int
	regionFlag  *string

	configOnce sync.Once
	config     shared.Config
}

func newCommandContext(outDir *string, workers *int, region *string) *commandContext {
	return &commandContext{outDirFlag: outDir, workersFlag: workers, regionFlag: region}
}

// ensureConfig loads the environment once and applies flag overrides.
func (c *commandContext) ensureConfig() shared.Config {
	c.configOnce.Do(func() {
		cfg := shared.Load()
		if v := strings.TrimSpace(*c.outDirFlag); v != "" {
			cfg.OutDir = v
		}
		if *c.workersFlag > 0 {
			cfg.Workers = *c.workersFlag
		}
		if v := strings.TrimSpace(*c.regionFlag); v != "" {
			cfg.RegionCode = strings.ToUpper(v)
		}
		c.config = cfg
	})
	return c.config
}

func newRootCommand() *cobra.Command {
	var outDirFlag, regionFlag string
	var workersFlag int

	ctx := newCommandContext(&outDirFlag, &workersFlag, &regionFlag)

	rootCmd := &cobra.Command{
		Use:           "reelmap",
		Short:         "Resolve place mentions from short videos to map places",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.ensureConfig()
			observability.InitGlobal(cfg.AppEnv, cfg.LogLevel, "reelmap")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&outDirFlag, "out-dir", "", "Artifact root (overrides OUT_DIR)")
	rootCmd.PersistentFlags().IntVar(&workersFlag, "workers", 0, "Candidates resolved concurrently (overrides RESOLVE_WORKERS)")
	rootCmd.PersistentFlags().StringVar(&regionFlag, "region", "", "Region code for search (overrides REGION_CODE)")

	rootCmd.AddCommand(newResolveCommand(ctx))

	return rootCmd
}
