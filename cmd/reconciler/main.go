package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"settlement-profit/internal/domain"
	"settlement-profit/internal/gateway"
	"settlement-profit/internal/platform/config"
	"settlement-profit/internal/usecase"
)

type output struct {
	ArtifactPath string             `json:"artifact_path"`
	Totals       domain.TotalsBlock `json:"totals"`
}

func main() {
	reportPath := flag.String("report", "", "Path to the settlement report (.xlsx or .csv) (required)")
	pricingPath := flag.String("pricing", "", "Path to the YAML or JSON price list")
	outPath := flag.String("out", "", "Path of the output workbook (default: processed_<uuid>.xlsx next to the report)")
	strictHeader := flag.Bool("strict-header", false, "Require header labels to match the column layout")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn or error")
	flag.Parse()

	if *reportPath == "" {
		fmt.Fprintln(os.Stderr, "Error: the -report flag is required.")
		flag.Usage()
		os.Exit(1)
	}

	logger := config.NewLogger(os.Stderr, &config.Config{LogLevel: *logLevel})

	var pricing []domain.PricingInput
	if *pricingPath != "" {
		var err error
		pricing, err = gateway.LoadPricingFile(*pricingPath)
		if err != nil {
			logger.Error("Failed to load pricing", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if *outPath == "" {
		*outPath = filepath.Join(filepath.Dir(*reportPath), "processed_"+uuid.NewString()+".xlsx")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Dependency Injection ---
	var source usecase.WorkbookSource = gateway.NewXLSXWorkbook()
	if strings.EqualFold(filepath.Ext(*reportPath), ".csv") {
		source = gateway.NewCSVWorkbook(0)
	}
	reportUseCase := usecase.NewReportUseCase(source, gateway.NewXLSXWorkbook(),
		usecase.WithStrictHeader(*strictHeader),
		usecase.WithLogger(logger),
	)

	// --- Execute the Usecase ---
	result, err := reportUseCase.Reconcile(ctx, domain.ReconcileRequest{
		ReportPath: *reportPath,
		OutputPath: *outPath,
		Pricing:    pricing,
	})
	if err != nil {
		logger.Error("Reconciliation failed", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}

	// --- Present the Output ---
	data, err := json.MarshalIndent(output{ArtifactPath: result.ArtifactPath, Totals: result.Totals}, "", "  ")
	if err != nil {
		logger.Error("Failed to generate JSON output", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Println(string(data))
}
