package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezonia/zugferd/internal/model"
	"github.com/rezonia/zugferd/internal/profile"
)

// ProfileInfo describes one (version, profile) pair
type ProfileInfo struct {
	Version  model.Version        `json:"version"`
	Profile  model.Profile        `json:"profile"`
	URN      string               `json:"urn"`
	Default  bool                 `json:"default"`
	Groups   []profile.FieldGroup `json:"groups"`
	TaxTypes []model.TaxType      `json:"taxTypes"`
}

func newProfilesCmd(o *options) *cobra.Command {
	var versionFlag string

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List supported versions and profiles",
		Long: `List every (version, profile) pair with its guideline URN, the
field groups it carries and the tax types it accepts.

Examples:
  zugferd profiles
  zugferd profiles --version 1.0 -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runProfiles(cmd.OutOrStdout(), versionFlag)
		},
	}

	cmd.Flags().StringVar(&versionFlag, "version", "", "Only list profiles of this version")
	return cmd
}

func (o *options) runProfiles(w io.Writer, versionFlag string) error {
	version, _, err := parseTarget(versionFlag, "")
	if err != nil {
		return err
	}

	infos := []ProfileInfo{}
	for _, c := range profile.All() {
		if version != "" && c.Version != version {
			continue
		}
		infos = append(infos, ProfileInfo{
			Version:  c.Version,
			Profile:  c.Profile,
			URN:      c.URN,
			Default:  c.Profile == profile.Default(c.Version),
			Groups:   c.AllowedGroups(),
			TaxTypes: c.AllowedTaxTypes(),
		})
	}

	if o.outputFormat == "json" {
		return writeJSON(w, infos)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tPROFILE\tDEFAULT\tGROUPS\tTAX TYPES\tURN")
	fmt.Fprintln(tw, "-------\t-------\t-------\t------\t---------\t---")
	for _, i := range infos {
		def := ""
		if i.Default {
			def = "*"
		}
		taxTypes := make([]string, len(i.TaxTypes))
		for n, t := range i.TaxTypes {
			taxTypes[n] = string(t)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			i.Version, i.Profile, def, len(i.Groups), strings.Join(taxTypes, ","), i.URN)
	}
	return tw.Flush()
}
