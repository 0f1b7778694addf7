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
	"github.com/rezonia/zugferd/internal/profile"
)

type convertFlags struct {
	version   string
	profile   string
	taxPolicy string
	timeout   time.Duration
}

func newConvertCmd(o *options) *cobra.Command {
	f := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Rewrite an invoice for another version or profile",
		Long: `Read an XML invoice or hybrid PDF and write it as XML for a target
version and profile. Fields the target profile cannot carry are dropped
and reported as warnings. Use "-" as <out> to write to stdout.

The target defaults to codec.version and codec.profile from the config.

Examples:
  zugferd convert invoice.pdf invoice.xml
  zugferd convert old.xml new.xml --version 2.1 --profile en16931
  zugferd convert in.xml - --profile xrechnung --tax-policy coerce`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runConvert(cmd.Context(), cmd.OutOrStdout(), f, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&f.version, "version", "", "Target version (1.0, 2.1)")
	cmd.Flags().StringVar(&f.profile, "profile", "", "Target profile (minimum, basicwl, basic, comfort, extended, xrechnung1, xrechnung)")
	cmd.Flags().StringVar(&f.taxPolicy, "tax-policy", "", "Unsupported tax types: reject or coerce")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 30*time.Second, "Conversion timeout")
	return cmd
}

func (o *options) runConvert(ctx context.Context, w io.Writer, f *convertFlags, in, out string) error {
	version, prof, err := parseTarget(f.version, f.profile)
	if err != nil {
		return err
	}
	if version == "" {
		if version, err = o.config.Codec.TargetVersion(); err != nil {
			return err
		}
		if f.profile == "" {
			if prof, err = o.config.Codec.TargetProfile(); err != nil {
				return err
			}
		}
	}
	if prof == model.ProfileUnknown {
		prof = profile.Default(version)
	}
	policy, err := o.taxPolicy(f.taxPolicy)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	pipeline := processor.NewPipeline(processor.WithTaxTypePolicy(policy))
	xml, result := pipeline.Convert(ctx, data, version, prof)
	for _, warning := range result.Warnings {
		o.log.Warn().Str("file", in).Msg(warning)
	}
	if result.Error != nil {
		return fmt.Errorf("%s: %w", in, result.Error)
	}

	if out == "-" {
		_, err := w.Write(xml)
		return err
	}
	if err := writeFileAtomic(out, xml); err != nil {
		return err
	}
	o.log.Info().
		Str("from", fmt.Sprintf("%s %s", result.Version, result.Profile)).
		Str("to", fmt.Sprintf("%s %s", version, prof)).
		Str("output", out).
		Msg("Invoice converted")
	return nil
}
