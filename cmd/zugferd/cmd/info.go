package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"github.com/rezonia/zugferd/internal/processor"
)

// FileInfo is what info reports per file
type FileInfo struct {
	File     string `json:"file"`
	Size     int64  `json:"size"`
	Format   string `json:"format"`
	MimeType string `json:"mimeType,omitempty"`
	Version  string `json:"version,omitempty"`
	Profile  string `json:"profile,omitempty"`
	URN      string `json:"urn,omitempty"`
	Source   string `json:"source,omitempty"`
	Error    string `json:"error,omitempty"`
}

func newInfoCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info [files...]",
		Short: "Show version and profile of invoice files",
		Long: `Display what each file is without decoding the whole invoice.

Shows:
  - Detected container (XML or hybrid PDF)
  - Attachment the XML came from
  - Schema version, profile and guideline URN

Examples:
  zugferd info invoice.xml
  zugferd info invoices/ -f json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runInfo(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}
}

func (o *options) runInfo(ctx context.Context, w io.Writer, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found")
	}

	pipeline := processor.NewPipeline()
	infos := make([]FileInfo, 0, len(files))
	for _, file := range files {
		o.printVerbose("Inspecting: %s\n", file)
		infos = append(infos, inspectFile(ctx, pipeline, file))
	}

	if o.outputFormat == "json" {
		return writeJSON(w, infos)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tFORMAT\tVERSION\tPROFILE\tSOURCE\tERROR")
	fmt.Fprintln(tw, "----\t------\t-------\t-------\t------\t-----")
	for _, i := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", i.File, i.Format, i.Version, i.Profile, i.Source, i.Error)
	}
	return tw.Flush()
}

func inspectFile(ctx context.Context, pipeline *processor.Pipeline, path string) FileInfo {
	fi := FileInfo{File: path, Format: processor.FormatUnknown.String()}

	data, err := os.ReadFile(path)
	if err != nil {
		fi.Error = fmt.Sprintf("failed to read file: %v", err)
		return fi
	}
	fi.Size = int64(len(data))
	fi.MimeType = mimetype.Detect(data).String()

	info := pipeline.Inspect(ctx, data)
	fi.Format = info.Format.String()
	fi.Version = string(info.Version)
	fi.Profile = string(info.Profile)
	fi.URN = info.URN
	fi.Source = info.Source
	if info.Error != nil {
		fi.Error = info.Error.Error()
	}
	return fi
}
