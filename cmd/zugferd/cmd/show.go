package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezonia/zugferd/internal/model"
	"github.com/rezonia/zugferd/internal/processor"
)

// ShowResult is the decoded content of one file
type ShowResult struct {
	File     string                   `json:"file"`
	Format   string                   `json:"format"`
	Version  model.Version            `json:"version"`
	Profile  model.Profile            `json:"profile"`
	Source   string                   `json:"source,omitempty"`
	Warnings []string                 `json:"warnings,omitempty"`
	Invoice  *model.InvoiceDescriptor `json:"invoice"`
}

func newShowCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Decode an invoice and print its content",
		Long: `Decode an XML invoice or the invoice attached to a hybrid PDF.

Table output summarizes the header, parties, totals and line items;
JSON output carries the complete invoice.

Examples:
  zugferd show invoice.xml
  zugferd show invoice.pdf -f json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runShow(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func (o *options) runShow(ctx context.Context, w io.Writer, path string) error {
	result := processor.NewPipeline().LoadFile(ctx, path)
	if result.Error != nil {
		return fmt.Errorf("%s: %w", path, result.Error)
	}
	for _, warning := range result.Warnings {
		o.log.Warn().Str("file", path).Msg(warning)
	}

	if o.outputFormat == "json" {
		return writeJSON(w, ShowResult{
			File:     path,
			Format:   result.Format.String(),
			Version:  result.Version,
			Profile:  result.Profile,
			Source:   result.Source,
			Warnings: result.Warnings,
			Invoice:  result.Invoice,
		})
	}
	return printInvoice(w, path, result)
}

func printInvoice(w io.Writer, path string, result *processor.Result) error {
	d := result.Invoice

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File:\t%s\n", path)
	fmt.Fprintf(tw, "Format:\t%s\n", result.Format)
	if result.Source != "" {
		fmt.Fprintf(tw, "Attachment:\t%s\n", result.Source)
	}
	fmt.Fprintf(tw, "Version:\t%s\n", result.Version)
	fmt.Fprintf(tw, "Profile:\t%s\n", result.Profile)
	fmt.Fprintf(tw, "Invoice No:\t%s\n", d.InvoiceNo)
	if !d.InvoiceDate.IsZero() {
		fmt.Fprintf(tw, "Date:\t%s\n", d.InvoiceDate.Format("2006-01-02"))
	}
	fmt.Fprintf(tw, "Type:\t%s\n", d.Type)
	fmt.Fprintf(tw, "Currency:\t%s\n", d.Currency)
	fmt.Fprintf(tw, "Seller:\t%s\n", partyLine(d.Seller))
	fmt.Fprintf(tw, "Buyer:\t%s\n", partyLine(d.Buyer))
	fmt.Fprintf(tw, "Tax Basis:\t%s\n", d.Totals.TaxBasisAmount.StringFixed(2))
	fmt.Fprintf(tw, "Tax Total:\t%s\n", d.Totals.TaxTotalAmount.StringFixed(2))
	fmt.Fprintf(tw, "Grand Total:\t%s\n", d.Totals.GrandTotalAmount.StringFixed(2))
	fmt.Fprintf(tw, "Due:\t%s\n", d.Totals.DuePayableAmount.StringFixed(2))
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(d.TradeLineItems) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tNAME\tQUANTITY\tUNIT\tPRICE\tTOTAL\tTAX")
	fmt.Fprintln(tw, "----\t----\t--------\t----\t-----\t-----\t---")
	for _, li := range d.TradeLineItems {
		price, total, tax := "", "", string(li.Tax.CategoryCode)
		if li.NetUnitPrice != nil {
			price = li.NetUnitPrice.String()
		}
		if li.LineTotalAmount != nil {
			total = li.LineTotalAmount.StringFixed(2)
		}
		if li.Tax.Percent != nil {
			tax += " " + li.Tax.Percent.String() + "%"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			li.LineID, li.Name, li.BilledQuantity.String(), li.UnitCode, price, total, tax)
	}
	return tw.Flush()
}

func partyLine(p *model.Party) string {
	if p == nil {
		return "-"
	}
	if p.Country == "" {
		return p.Name
	}
	return p.Name + " (" + p.Country + ")"
}
