package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/molding-cutter/internal/cutting"
	"github.com/eugenenazirov/molding-cutter/internal/export"
	"github.com/eugenenazirov/molding-cutter/internal/importer"
	"github.com/eugenenazirov/molding-cutter/internal/logging"
	"github.com/eugenenazirov/molding-cutter/internal/storage"
)

var errNoPieces = errors.New("no pieces given: pass lengths as arguments or use --file")

type options struct {
	stockLength   uint
	maxStockUnits uint
	pieces        []uint
	file          string
	preserveOrder bool
	pdfPath       string
	xlsxPath      string
	logLevel      string
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	kingpin.FatalIfError(err, "")

	logger, err := logging.New(opts.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(opts, os.Stdout, logger); err != nil {
		logger.Error("cut list failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func parseArgs(args []string) (options, error) {
	var opts options

	app := kingpin.New("cutlist", "Plans how fixed length moldings are cut into the requested pieces.")
	app.Flag("stock-length", "Length of one stock unit").
		Short('s').
		Envar("STOCK_LENGTH").
		Default(strconv.FormatUint(uint64(storage.DefaultStockLength), 10)).
		UintVar(&opts.stockLength)
	app.Flag("max-stock-units", "Refuse plans needing more stock units than this (0 disables)").
		Default("10000").
		UintVar(&opts.maxStockUnits)
	app.Flag("file", "CSV or Excel file with length[,quantity] rows").
		Short('f').
		ExistingFileVar(&opts.file)
	app.Flag("preserve-order", "Cut pieces in the given order instead of longest first").
		BoolVar(&opts.preserveOrder)
	app.Flag("pdf", "Write a PDF cut diagram to this path").StringVar(&opts.pdfPath)
	app.Flag("xlsx", "Write an Excel cut list to this path").StringVar(&opts.xlsxPath)
	app.Flag("log-level", "Log level (debug, info, warn, error)").
		Envar("LOG_LEVEL").
		Default("warn").
		StringVar(&opts.logLevel)
	app.Arg("pieces", "Requested piece lengths").UintsVar(&opts.pieces)

	if _, err := app.Parse(args); err != nil {
		return options{}, err
	}
	if opts.stockLength == 0 {
		return options{}, fmt.Errorf("--stock-length must be positive")
	}
	return opts, nil
}

func run(opts options, stdout io.Writer, logger *zap.Logger) error {
	lengths := append([]uint(nil), opts.pieces...)

	if opts.file != "" {
		imported, err := importFile(opts.file, logger)
		if err != nil {
			return err
		}
		lengths = append(lengths, imported...)
	}
	if len(lengths) == 0 {
		return errNoPieces
	}

	planner := cutting.New(cutting.WithMaxStockUnits(opts.maxStockUnits))
	plan, err := planner.Plan(cutting.Request{
		StockLength:   opts.stockLength,
		Pieces:        lengths,
		PreserveOrder: opts.preserveOrder,
	})
	if err != nil {
		return fmt.Errorf("plan cut list: %w", err)
	}

	logger.Info("cut list planned",
		zap.Uint("stock_length", plan.StockLength),
		zap.Int("pieces", len(lengths)),
		zap.Int("stock_units", plan.StockCount()),
		zap.Uint("waste", plan.TotalWaste),
	)

	if err := export.WriteText(stdout, plan); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if opts.pdfPath != "" {
		if err := writeFile(opts.pdfPath, plan, export.WritePDF); err != nil {
			return fmt.Errorf("write PDF: %w", err)
		}
		logger.Info("PDF written", zap.String("path", opts.pdfPath))
	}
	if opts.xlsxPath != "" {
		if err := writeFile(opts.xlsxPath, plan, export.WriteXLSX); err != nil {
			return fmt.Errorf("write XLSX: %w", err)
		}
		logger.Info("XLSX written", zap.String("path", opts.xlsxPath))
	}
	return nil
}

func importFile(path string, logger *zap.Logger) ([]uint, error) {
	var (
		result importer.Result
		err    error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		result, err = importer.ImportExcel(path)
	default:
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("open %s: %w", path, openErr)
		}
		defer f.Close()
		result, err = importer.ImportCSV(f)
	}

	for _, warning := range result.Warnings {
		logger.Warn("skipped row", zap.String("file", path), zap.String("reason", warning))
	}
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return result.Lengths(), nil
}

func writeFile(path string, plan cutting.Plan, render func(io.Writer, cutting.Plan) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	return render(f, plan)
}
