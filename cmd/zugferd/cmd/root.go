package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rezonia/zugferd/internal/config"
	"github.com/rezonia/zugferd/internal/logger"
	"github.com/rezonia/zugferd/internal/validator"
)

var version = "1.0.0"

// options carries the global flags and what initConfig derives from them
type options struct {
	configFile   string
	verbose      bool
	outputFormat string
	logLevel     string

	config *config.Config
	log    zerolog.Logger
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	o := &options{config: config.Default(), log: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "zugferd",
		Short: "Read, write and validate ZUGFeRD / Factur-X invoices",
		Long: `zugferd reads, converts and validates CII e-invoices.

Supports:
  - ZUGFeRD 1.0 (Basic, Comfort, Extended)
  - ZUGFeRD 2.1 / Factur-X (Minimum, BasicWL, Basic, Comfort/EN16931, Extended)
  - XRechnung 1.2 and 2.x
  - Hybrid PDFs carrying the invoice XML as an attachment

Examples:
  # Show what a file is
  zugferd info invoice.pdf

  # Convert a 1.0 document to XRechnung
  zugferd convert old.xml new.xml --version 2.1 --profile xrechnung

  # Validate against the profile the document declares
  zugferd validate *.xml`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.initConfig()
		},
	}

	rootCmd.PersistentFlags().StringVar(&o.configFile, "config", "", "Config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&o.outputFormat, "format", "f", "table", "Output format (json, table)")
	rootCmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInfoCmd(o),
		newShowCmd(o),
		newValidateCmd(o),
		newConvertCmd(o),
		newProfilesCmd(o),
		newServeCmd(o),
	)
	return rootCmd
}

// Execute runs the CLI with os.Args
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *options) initConfig() error {
	switch o.outputFormat {
	case "json", "table":
	default:
		return fmt.Errorf("unsupported output format: %s", o.outputFormat)
	}

	cfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}
	o.config = cfg

	logCfg := cfg.GetLoggerConfig()
	if o.verbose {
		logCfg.Level = "debug"
	}
	if o.logLevel != "" {
		logCfg.Level = o.logLevel
	}
	log, err := logger.Setup(logCfg)
	if err != nil {
		return err
	}
	o.log = log
	return nil
}

// taxPolicy parses the --tax-policy flag, falling back to the configured policy
func (o *options) taxPolicy(flag string) (validator.TaxTypePolicy, error) {
	if flag == "" {
		return o.config.Codec.Policy()
	}
	return validator.ParseTaxTypePolicy(flag)
}

func (o *options) printVerbose(format string, args ...interface{}) {
	if o.verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
