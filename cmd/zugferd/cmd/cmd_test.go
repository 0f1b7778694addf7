package cmd_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/zugferd/cmd/zugferd/cmd"
	"github.com/rezonia/zugferd/internal/codec"
	"github.com/rezonia/zugferd/internal/model"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := cmd.NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func testFile(name string) string {
	return filepath.Join("testdata", name)
}

func TestRoot_InvalidFormat(t *testing.T) {
	_, err := run(t, "profiles", "-f", "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestInfo(t *testing.T) {
	out, err := run(t, "info", testFile("factur-x.xml"), testFile("hybrid.pdf"), "-f", "json")
	require.NoError(t, err)

	var infos []cmd.FileInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 2)

	assert.Equal(t, "xml", infos[0].Format)
	assert.Equal(t, "2.1", infos[0].Version)
	assert.Equal(t, "MINIMUM", infos[0].Profile)
	assert.Equal(t, "urn:factur-x.eu:1p0:minimum", infos[0].URN)
	assert.Empty(t, infos[0].Error)

	assert.Equal(t, "pdf", infos[1].Format)
	assert.Equal(t, "application/pdf", infos[1].MimeType)
	assert.Equal(t, "factur-x.xml", infos[1].Source)
	assert.Equal(t, "MINIMUM", infos[1].Profile)
}

func TestInfo_Table(t *testing.T) {
	out, err := run(t, "info", testFile("zugferd1_comfort.xml"), testFile("plain.pdf"))
	require.NoError(t, err)

	assert.Contains(t, out, "FILE")
	assert.Contains(t, out, "COMFORT")
	assert.Contains(t, out, "1.0")
	assert.Contains(t, out, "plain.pdf")
}

func TestInfo_Directory(t *testing.T) {
	out, err := run(t, "info", "testdata", "-f", "json")
	require.NoError(t, err)

	var infos []cmd.FileInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	assert.Len(t, infos, 4)
}

func TestInfo_MissingFile(t *testing.T) {
	_, err := run(t, "info", filepath.Join(t.TempDir(), "missing.xml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestShow(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		contains []string
	}{
		{
			name:     "minimum xml",
			file:     "factur-x.xml",
			contains: []string{"FX-2024-001", "Lieferant GmbH (DE)", "119.00", "MINIMUM"},
		},
		{
			name:     "hybrid pdf",
			file:     "hybrid.pdf",
			contains: []string{"Attachment:", "factur-x.xml", "FX-2024-001"},
		},
		{
			name:     "version 1 with lines",
			file:     "zugferd1_comfort.xml",
			contains: []string{"471102", "LINE", "COMFORT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "show", testFile(tt.file))
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestShow_JSON(t *testing.T) {
	out, err := run(t, "show", testFile("hybrid.pdf"), "-f", "json")
	require.NoError(t, err)

	var result cmd.ShowResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "pdf", result.Format)
	assert.Equal(t, model.ProfileMinimum, result.Profile)
	require.NotNil(t, result.Invoice)
	assert.Equal(t, "FX-2024-001", result.Invoice.InvoiceNo)
}

func TestShow_Errors(t *testing.T) {
	_, err := run(t, "show", testFile("plain.pdf"))
	require.Error(t, err)

	_, err = run(t, "show")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", testFile("factur-x.xml"), testFile("zugferd1_comfort.xml"))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ "+testFile("factur-x.xml")+": VALID (2.1 MINIMUM)")
	assert.Contains(t, out, "VALID (1.0 COMFORT)")
}

func TestValidate_Invalid(t *testing.T) {
	data, err := os.ReadFile(testFile("factur-x.xml"))
	require.NoError(t, err)
	data = bytes.Replace(data, []byte(`<ram:CountryID>DE</ram:CountryID>`), []byte(`<ram:CountryID>XX</ram:CountryID>`), 1)

	path := filepath.Join(t.TempDir(), "invalid.xml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	out, err := run(t, "validate", path, "-f", "json")
	require.Error(t, err)

	var results []cmd.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.False(t, results[0].Valid)
	require.Len(t, results[0].Errors, 1)
	assert.Contains(t, results[0].Errors[0], "Seller.Country")
}

func TestValidate_Target(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "explicit target", args: []string{"--version", "2.1", "--profile", "extended"}},
		{name: "unknown profile", args: []string{"--profile", "gold"}, wantErr: "unknown profile"},
		{name: "unknown version", args: []string{"--version", "3"}, wantErr: "unknown version"},
		{name: "unknown policy", args: []string{"--tax-policy", "ignore"}, wantErr: "unknown tax type policy"},
		{name: "undefined pair", args: []string{"--version", "1.0", "--profile", "minimum"}, wantErr: "validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append([]string{"validate", testFile("factur-x.xml")}, tt.args...)...)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		args    []string
		version model.Version
		profile model.Profile
	}{
		{name: "config default", input: "factur-x.xml", version: model.Version21, profile: model.ProfileBasic},
		{name: "version 1 to en16931", input: "zugferd1_comfort.xml", args: []string{"--version", "2.1", "--profile", "en16931"}, version: model.Version21, profile: model.ProfileComfort},
		{name: "pdf to xrechnung", input: "hybrid.pdf", args: []string{"--profile", "xrechnung"}, version: model.Version21, profile: model.ProfileXRechnung},
		{name: "down to version 1", input: "zugferd1_comfort.xml", args: []string{"--version", "1.0"}, version: model.Version1, profile: model.ProfileBasic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out.xml")
			_, err := run(t, append([]string{"convert", testFile(tt.input), out}, tt.args...)...)
			require.NoError(t, err)

			d, err := codec.LoadFile(out)
			require.NoError(t, err)
			assert.Equal(t, tt.version, d.Version)
			assert.Equal(t, tt.profile, d.Profile)
		})
	}
}

func TestConvert_Stdout(t *testing.T) {
	out, err := run(t, "convert", testFile("zugferd1_comfort.xml"), "-", "--profile", "minimum")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, "urn:factur-x.eu:1p0:minimum")
	assert.NotContains(t, out, "IncludedSupplyChainTradeLineItem")
}

func TestConvert_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(config, []byte("codec:\n  version: \"2.1\"\n  profile: extended\n"), 0o644))

	out := filepath.Join(dir, "out.xml")
	_, err := run(t, "--config", config, "convert", testFile("factur-x.xml"), out)
	require.NoError(t, err)

	d, err := codec.LoadFile(out)
	require.NoError(t, err)
	assert.Equal(t, model.ProfileExtended, d.Profile)
}

func TestConvert_Errors(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "existing.xml")
	require.NoError(t, os.WriteFile(existing, []byte("keep"), 0o644))

	tests := []struct {
		name string
		args []string
	}{
		{name: "undefined pair", args: []string{"convert", testFile("factur-x.xml"), existing, "--version", "1.0", "--profile", "minimum"}},
		{name: "no invoice in pdf", args: []string{"convert", testFile("plain.pdf"), existing}},
		{name: "missing input", args: []string{"convert", filepath.Join(dir, "missing.xml"), existing}},
		{name: "missing output", args: []string{"convert", testFile("factur-x.xml")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)

			data, err := os.ReadFile(existing)
			require.NoError(t, err)
			assert.Equal(t, "keep", string(data))
		})
	}
}

func TestProfiles(t *testing.T) {
	out, err := run(t, "profiles")
	require.NoError(t, err)
	assert.Contains(t, out, "XRECHNUNG1")
	assert.Contains(t, out, "urn:ferd:CrossIndustryDocument:invoice:1p0:extended")

	out, err = run(t, "profiles", "--version", "1.0", "-f", "json")
	require.NoError(t, err)

	var infos []cmd.ProfileInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 3)
	for _, i := range infos {
		assert.Equal(t, model.Version1, i.Version)
		assert.Equal(t, i.Profile == model.ProfileBasic, i.Default)
	}

	_, err = run(t, "profiles", "--version", "9")
	require.Error(t, err)
}
