package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mofutimer/autorace-schedule/internal/config"
	"github.com/mofutimer/autorace-schedule/internal/logger"
	"github.com/mofutimer/autorace-schedule/internal/race"
	"github.com/mofutimer/autorace-schedule/internal/scraper"
	"github.com/mofutimer/autorace-schedule/internal/storage"
)

// Exit statuses shared by both binaries. A converter run whose input table
// was never written exits with ExitMissingTable so schedulers can tell "no
// crawl happened" apart from ordinary failures.
const (
	ExitSuccess      = 0
	ExitError        = 1
	ExitMissingTable = 2
)

var (
	flagConfig  string
	flagDataDir string
	flagVerbose bool
)

// NewScrapeCmd creates the crawler command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autorace-scrape [YYYYMMDD]",
		Short: "Harvest one day's autorace schedule into the intermediate table",
		Long: `Crawls the public results site for one programme day, extracts every
race at every venue running that day, and writes the intermediate CSV table.
With no argument the current day in JST is used.`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runScrape,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addCommonFlags(cmd)
	return cmd
}

// NewConvertCmd creates the converter command.
func NewConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autorace-convert YYYYMMDD",
		Short: "Fold a day's intermediate table into the grouped race list",
		Long: `Reads the intermediate CSV table written by autorace-scrape and folds
it into the venue/grade-grouped JSON race list consumed downstream.`,
		Args:          cobra.ExactArgs(1),
		RunE:          runConvert,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addCommonFlags(cmd)
	return cmd
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", "", "Data directory for artifacts (overrides config)")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
}

// setup applies flags and builds the shared config and storage.
func setup() (*config.Config, *storage.Storage, error) {
	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing storage: %w", err)
	}
	return cfg, store, nil
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, store, err := setup()
	if err != nil {
		return err
	}

	day := race.Today()
	if len(args) == 1 {
		day = args[0]
	}
	if !race.ValidDay(day) {
		return fmt.Errorf("invalid day %q (want YYYYMMDD)", day)
	}

	sc, err := scraper.New(cfg)
	if err != nil {
		return fmt.Errorf("initializing scraper: %w", err)
	}

	records, err := sc.ScrapeDay(day)
	if err != nil {
		return fmt.Errorf("scraping day schedule: %w", err)
	}

	if len(records) == 0 {
		logger.Warn("no races extracted, nothing written", logger.Fields{"day": day})
		return nil
	}

	if err := store.WriteTable(day, records); err != nil {
		return fmt.Errorf("writing race table: %w", err)
	}
	logger.Info("race table written", logger.Fields{
		"path":    store.TablePath(day),
		"rows":    len(records),
		"metrics": logger.GetMetricsSnapshot(),
	})
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	_, store, err := setup()
	if err != nil {
		return err
	}

	day := args[0]
	if !race.ValidDay(day) {
		return fmt.Errorf("invalid day %q (want YYYYMMDD)", day)
	}

	records, err := store.ReadTable(day)
	if err != nil {
		// Includes storage.ErrTableNotFound, which main maps to a
		// distinct exit status.
		return fmt.Errorf("reading race table: %w", err)
	}

	groups := race.Aggregate(records)
	if err := store.WriteRaceList(day, groups); err != nil {
		return fmt.Errorf("writing race list: %w", err)
	}
	logger.Info("race list written", logger.Fields{
		"path":   store.RaceListPath(day),
		"groups": len(groups),
	})
	return nil
}
