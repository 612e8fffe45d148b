// Command allocate runs one budget distribution batch from a YAML request
// file against the configured database and prints the breakdown.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/sorenh/brandbudget-backend/internal/application/service"
	"github.com/sorenh/brandbudget-backend/internal/domain/budget"
	"github.com/sorenh/brandbudget-backend/internal/infrastructure/config"
	"github.com/sorenh/brandbudget-backend/internal/infrastructure/storage"
	"github.com/sorenh/brandbudget-backend/internal/observability"
)

// batchFile is the YAML shape of a request file.
type batchFile struct {
	StartPeriod string   `yaml:"start_period"`
	EndPeriod   string   `yaml:"end_period"`
	Periods     []string `yaml:"periods"`
	Requests    []struct {
		Brand        string `yaml:"brand"`
		Company      string `yaml:"company"`
		TargetDate   string `yaml:"target_date"`
		TargetAmount string `yaml:"target_amount"`
	} `yaml:"requests"`
}

func main() {
	var (
		configFile = flag.String("config", "config.yaml", "Configuration file path")
		batchPath  = flag.String("file", "", "YAML file of budget requests (required)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if *batchPath == "" {
		fmt.Fprintln(os.Stderr, "usage: allocate -file requests.yaml [-config config.yaml]")
		os.Exit(2)
	}

	cfg := config.LoadOrEnvWithPath(*configFile)
	loggingCfg := cfg.Observability.Logging
	if *verbose {
		loggingCfg.Level = "debug"
	}
	logger := observability.NewLogger(loggingCfg)

	input, err := loadBatch(*batchPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "allocate: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "allocate: opening database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	svc := service.NewBudgetService(store, logger)
	run, err := svc.RunDistribution(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "allocate: %v\n", err)
		os.Exit(1)
	}

	printRun(run)
}

func loadBatch(path string) (*service.DistributionInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file batchFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	input := &service.DistributionInput{
		StartPeriod: file.StartPeriod,
		EndPeriod:   file.EndPeriod,
		Periods:     file.Periods,
	}
	for i, row := range file.Requests {
		targetDate, err := time.Parse("2006-01-02", row.TargetDate)
		if err != nil {
			return nil, fmt.Errorf("request %d: target date must be YYYY-MM-DD", i)
		}
		amount, err := decimal.NewFromString(row.TargetAmount)
		if err != nil {
			return nil, fmt.Errorf("request %d: bad target amount %q", i, row.TargetAmount)
		}
		input.Requests = append(input.Requests, budget.BrandBudgetRequest{
			Brand:        row.Brand,
			Company:      row.Company,
			TargetDate:   targetDate,
			TargetAmount: amount,
		})
	}
	return input, nil
}

func printRun(run *storage.BudgetRun) {
	fmt.Printf("Run %s over periods %s\n", run.ID, strings.Join(run.Periods, ", "))
	fmt.Println(strings.Repeat("-", 72))

	for _, result := range run.Results {
		fmt.Printf("%s / %s: target %s, historical avg %s, factor %s (%s%%)\n",
			result.Brand, result.Company,
			result.TargetAmount.StringFixed(2),
			result.HistoricalAverage.StringFixed(2),
			result.AdjustmentFactor.StringFixed(4),
			result.PercentChange.StringFixed(2),
		)
		for _, client := range result.Clients {
			fmt.Printf("  %-24s %-16s subtotal %12s\n",
				client.Client, client.Vendor, client.Subtotal.StringFixed(2))
			for _, article := range client.Articles {
				fmt.Printf("    %-22s avg %10s -> %10s (variance %s)\n",
					article.Article,
					article.HistoricalAverage.StringFixed(2),
					article.AdjustedAmount.StringFixed(2),
					article.Variance.StringFixed(2),
				)
			}
		}
	}

	if len(run.Errors) > 0 {
		fmt.Println("\nSkipped requests:")
		for _, e := range run.Errors {
			fmt.Printf("  - %v\n", e)
		}
	}

	fmt.Println(strings.Repeat("-", 72))
	fmt.Printf("Summary: Results=%d Errors=%d\n", len(run.Results), len(run.Errors))
}
