package main

import (
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/baf-stacker/internal/config"
	"github.com/iwvelando/baf-stacker/internal/ingest"
	"github.com/iwvelando/baf-stacker/pkg/constants"
	"github.com/iwvelando/baf-stacker/pkg/output"
	"github.com/iwvelando/baf-stacker/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type packOptions struct {
	outputFormat string
	outputFile   string
}

func newPackCommand(root *rootOptions) *cobra.Command {
	opts := &packOptions{}
	cmd := &cobra.Command{
		Use:   "pack FILE",
		Short: "Build stacks from an Excel or CSV coil list",
		Long:  "Reads Width, Grade and Weight columns from FILE (.xlsx or .csv), builds stacks and prints the summary, the stacks and the waiting coils.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(cmd.OutOrStdout(), cmd.ErrOrStderr(), root, opts, args[0])
		},
	}
	cmd.Flags().StringVar(&opts.outputFormat, "output-format", "", "type of output override: pretty, csv, json, xlsx")
	cmd.Flags().StringVar(&opts.outputFile, "output-file", "", "write the report to this file instead of stdout")
	return cmd
}

// loadConfiguration reads the configuration, validates it and builds the
// logger. Warnings are logged before returning.
func loadConfiguration(root *rootOptions) (*config.Configuration, *zap.Logger, error) {
	conf, err := config.LoadOptionalConfiguration(root.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration at %s: %w", root.configPath, err)
	}
	if err := conf.Validate(); err != nil {
		return nil, nil, err
	}

	logger, err := initializeLogger(conf.Logging, root.logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.loadConfiguration"),
		)
	}
	return conf, logger, nil
}

func runPack(stdout, stderr io.Writer, root *rootOptions, opts *packOptions, path string) error {
	conf, logger, err := loadConfiguration(root)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if opts.outputFormat != "" {
		outputFormat = opts.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}
	if outputFormat == constants.OutputFormatXLSX && opts.outputFile == "" {
		return fmt.Errorf("output format %s requires --output-file", outputFormat)
	}

	packer, err := conf.Stacking.NewPacker(logger)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open coil file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	batch, err := ingest.Read(file, path)
	if err != nil {
		logger.Error("failed to read coil file",
			zap.String("op", "main.runPack"),
			zap.String("file", path),
			zap.Error(err),
		)
		return err
	}
	for _, dropped := range batch.Dropped {
		logger.Debug("dropped row",
			zap.String("op", "main.runPack"),
			zap.Int("row", dropped.Row),
			zap.String("reason", dropped.Reason),
		)
	}

	result, err := packer.Pack(batch.Coils)
	if err != nil {
		logger.Error("failed to build stacks",
			zap.String("op", "main.runPack"),
			zap.Error(err),
		)
		return err
	}
	logger.Info("stacks computed",
		zap.String("op", "main.runPack"),
		zap.String("file", path),
		zap.Int("coils", result.Summary.TotalCoils),
		zap.Int("dropped", len(batch.Dropped)),
		zap.Int("stacks", result.Summary.StackCount),
		zap.Int("waiting", result.Summary.WaitingCoils),
	)

	w := stdout
	if opts.outputFile != "" {
		out, err := os.Create(opts.outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if closeErr := out.Close(); closeErr != nil {
				logger.Warn("failed to close output file",
					zap.String("op", "main.runPack"),
					zap.Error(closeErr),
				)
			}
		}()
		w = out
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyDropped(stderr, batch.Dropped)
		output.PrettyFormat(w, result)
	case constants.OutputFormatCSV:
		err = output.CsvFormat(w, result)
	case constants.OutputFormatJSON:
		err = output.JSONFormat(w, result)
	case constants.OutputFormatXLSX:
		err = output.WriteWorkbook(w, result)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s output: %w", outputFormat, err)
	}
	return nil
}
