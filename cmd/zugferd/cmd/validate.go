package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/zugferd/internal/model"
	"github.com/rezonia/zugferd/internal/processor"
)

// ValidationResult holds the result of validating a single file
type ValidationResult struct {
	File     string        `json:"file"`
	Valid    bool          `json:"valid"`
	Version  model.Version `json:"version,omitempty"`
	Profile  model.Profile `json:"profile,omitempty"`
	Errors   []string      `json:"errors,omitempty"`
	Warnings []string      `json:"warnings,omitempty"`
}

type validateFlags struct {
	version   string
	profile   string
	taxPolicy string
	timeout   time.Duration
}

func newValidateCmd(o *options) *cobra.Command {
	f := &validateFlags{}

	cmd := &cobra.Command{
		Use:   "validate [files...]",
		Short: "Validate invoice files",
		Long: `Validate one or more invoices against a version and profile.

Without --version and --profile each document is checked against the
profile it declares. Checks performed:
  - Mandatory fields present
  - ISO 4217 currency and ISO 3166 country codes
  - Tax types the profile accepts
  - SEPA direct debit mandate and creditor IDs
  - Billing period order and unit codes

Examples:
  zugferd validate invoice.xml
  zugferd validate *.xml --version 2.1 --profile xrechnung`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runValidate(cmd.Context(), cmd.OutOrStdout(), f, args)
		},
	}

	cmd.Flags().StringVar(&f.version, "version", "", "Target version (1.0, 2.1); defaults to the document's")
	cmd.Flags().StringVar(&f.profile, "profile", "", "Target profile; defaults to the document's")
	cmd.Flags().StringVar(&f.taxPolicy, "tax-policy", "", "Unsupported tax types: reject or coerce (default from config)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 30*time.Second, "Validation timeout per file")
	return cmd
}

func (o *options) runValidate(ctx context.Context, w io.Writer, f *validateFlags, args []string) error {
	version, prof, err := parseTarget(f.version, f.profile)
	if err != nil {
		return err
	}
	policy, err := o.taxPolicy(f.taxPolicy)
	if err != nil {
		return err
	}

	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to validate")
	}

	pipeline := processor.NewPipeline(processor.WithTaxTypePolicy(policy))
	results := make([]*ValidationResult, 0, len(files))
	allValid := true

	for _, file := range files {
		o.printVerbose("Validating: %s\n", file)
		result := validateFile(ctx, pipeline, file, version, prof, f.timeout)
		results = append(results, result)
		if !result.Valid {
			allValid = false
		}
	}

	if o.outputFormat == "json" {
		if err := writeJSON(w, results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Fprintf(w, "✓ %s: VALID (%s %s)\n", r.File, r.Version, r.Profile)
			} else {
				fmt.Fprintf(w, "✗ %s: INVALID\n", r.File)
				for _, e := range r.Errors {
					fmt.Fprintf(w, "  - %s\n", e)
				}
			}
			for _, warning := range r.Warnings {
				fmt.Fprintf(w, "  ⚠ %s\n", warning)
			}
		}
	}

	if !allValid {
		return fmt.Errorf("validation failed for some files")
	}
	return nil
}

func validateFile(ctx context.Context, pipeline *processor.Pipeline, path string, version model.Version, prof model.Profile, timeout time.Duration) *ValidationResult {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := &ValidationResult{File: path, Valid: true}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read file: %v", err))
		return result
	}

	r := pipeline.Validate(ctx, data, version, prof)
	result.Warnings = r.Warnings
	result.Version, result.Profile = version, prof
	if result.Version == "" {
		result.Version = r.Version
	}
	if result.Profile == model.ProfileUnknown {
		result.Profile = r.Profile
	}

	for _, e := range flatten(r.Error) {
		result.Valid = false
		result.Errors = append(result.Errors, e.Error())
	}
	return result
}

// flatten splits errors.Join results into their parts
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range j.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}
