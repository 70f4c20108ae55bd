package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/i474232898/bike-sharing-dashboard/internal/common"
	"github.com/i474232898/bike-sharing-dashboard/internal/config"
	"github.com/i474232898/bike-sharing-dashboard/internal/dataset"
	"github.com/i474232898/bike-sharing-dashboard/internal/logger"
	"github.com/i474232898/bike-sharing-dashboard/internal/rental"
	"github.com/i474232898/bike-sharing-dashboard/internal/store"
)

var (
	dataSource string
	startDate  string
	endDate    string
)

var rootCmd = &cobra.Command{
	Use:   "bike-sharing-dashboard",
	Short: "Explore hourly bike-sharing rentals by date range",
	Long: `bike-sharing-dashboard loads an hourly bike-sharing CSV and summarises it
by day, season, weather situation and hour of the day, either as a web
dashboard or from the command line.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataSource, "data", "", "CSV path or URL (overrides DATA_SOURCE)")
}

// addRangeFlags registers --start and --end on commands that run the pipeline once.
func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&startDate, "start", "", "first day of the range (default: first day in the dataset)")
	cmd.Flags().StringVar(&endDate, "end", "", "last day of the range (default: last day in the dataset)")
}

// deps bundles what every subcommand needs.
type deps struct {
	cfg     *config.AppConfig
	log     *zap.Logger
	service *rental.Service
}

// bootstrap loads configuration, builds the service and loads the dataset once.
func bootstrap(ctx context.Context) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dataSource != "" {
		cfg.DataSource = dataSource
	}

	log, err := logger.New(cfg.LogFile, cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	// Shared HTTP client for remote datasets.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	memStore := store.NewMemoryStore(cfg.StoreMaxHistory)
	service := rental.NewService(memStore, dataset.NewSource(cfg.DataSource, httpClient), log)

	loadCtx, cancel := context.WithTimeout(ctx, cfg.HTTPTimeout)
	defer cancel()
	if err := service.Reload(loadCtx); err != nil {
		_ = log.Sync()
		return nil, err
	}

	return &deps{cfg: cfg, log: log, service: service}, nil
}

// selectedDashboard runs the pipeline for the --start/--end flags.
func (rt *deps) selectedDashboard() (rental.Dashboard, error) {
	var start, end time.Time
	var err error
	if startDate != "" {
		if start, err = common.ParseDay(startDate); err != nil {
			return rental.Dashboard{}, fmt.Errorf("invalid --start: %w", err)
		}
	}
	if endDate != "" {
		if end, err = common.ParseDay(endDate); err != nil {
			return rental.Dashboard{}, fmt.Errorf("invalid --end: %w", err)
		}
	}
	return rt.service.Dashboard(start, end)
}
