package profile_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/zugferd/internal/model"
	"github.com/rezonia/zugferd/internal/profile"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		version model.Version
		profile model.Profile
		urn     string
	}{
		{model.Version21, model.ProfileMinimum, "urn:factur-x.eu:1p0:minimum"},
		{model.Version21, model.ProfileBasicWL, "urn:factur-x.eu:1p0:basicwl"},
		{model.Version21, model.ProfileBasic, "urn:cen.eu:en16931:2017#compliant#urn:factur-x.eu:1p0:basic"},
		{model.Version21, model.ProfileComfort, "urn:cen.eu:en16931:2017"},
		{model.Version21, model.ProfileExtended, "urn:cen.eu:en16931:2017#conformant#urn:factur-x.eu:1p0:extended"},
		{model.Version21, model.ProfileXRechnung1, "urn:cen.eu:en16931:2017#compliant#urn:xoev-de:kosit:standard:xrechnung_1.2"},
		{model.Version21, model.ProfileXRechnung, "urn:cen.eu:en16931:2017#compliant#urn:xoev-de:kosit:standard:xrechnung_2.0"},
		{model.Version1, model.ProfileBasic, "urn:ferd:CrossIndustryDocument:invoice:1p0:basic"},
		{model.Version1, model.ProfileComfort, "urn:ferd:CrossIndustryDocument:invoice:1p0:comfort"},
		{model.Version1, model.ProfileExtended, "urn:ferd:CrossIndustryDocument:invoice:1p0:extended"},
	}

	for _, tt := range tests {
		t.Run(string(tt.version)+"/"+string(tt.profile), func(t *testing.T) {
			c, err := profile.Lookup(tt.version, tt.profile)
			require.NoError(t, err)
			assert.Equal(t, tt.urn, c.URN)

			back, err := profile.ForURN(tt.version, tt.urn)
			require.NoError(t, err)
			assert.Equal(t, tt.profile, back.Profile)
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := profile.Lookup(model.Version1, model.ProfileMinimum)
	require.Error(t, err)

	var upe *model.UnknownProfileError
	require.True(t, errors.As(err, &upe))
	assert.Equal(t, model.Version1, upe.Version)
	assert.Equal(t, model.ProfileMinimum, upe.Profile)
}

func TestForURN(t *testing.T) {
	t.Run("accepted alias", func(t *testing.T) {
		c, err := profile.ForURN(model.Version21, "urn:cen.eu:en16931:2017#compliant#urn:xoev-de:kosit:standard:xrechnung_2.2")
		require.NoError(t, err)
		assert.Equal(t, model.ProfileXRechnung, c.Profile)
	})

	t.Run("surrounding whitespace", func(t *testing.T) {
		c, err := profile.ForURN(model.Version21, "  urn:factur-x.eu:1p0:minimum\n")
		require.NoError(t, err)
		assert.Equal(t, model.ProfileMinimum, c.Profile)
	})

	t.Run("wrong version", func(t *testing.T) {
		_, err := profile.ForURN(model.Version1, "urn:factur-x.eu:1p0:minimum")
		var upe *model.UnknownProfileError
		require.True(t, errors.As(err, &upe))
		assert.Equal(t, "urn:factur-x.eu:1p0:minimum", upe.URN)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := profile.ForURN(model.Version21, "")
		var upe *model.UnknownProfileError
		require.True(t, errors.As(err, &upe))
		assert.Contains(t, upe.Error(), "missing profile")
	})
}

func TestURNsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range profile.All() {
		id := string(c.Version) + "|" + c.URN
		assert.False(t, seen[id], "duplicate urn %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, 10)
}

func TestGroupTiers(t *testing.T) {
	get := func(v model.Version, p model.Profile) profile.Capability {
		c, err := profile.Lookup(v, p)
		require.NoError(t, err)
		return c
	}
	minimum := get(model.Version21, model.ProfileMinimum)
	basicWL := get(model.Version21, model.ProfileBasicWL)
	basic := get(model.Version21, model.ProfileBasic)
	comfort := get(model.Version21, model.ProfileComfort)
	extended := get(model.Version21, model.ProfileExtended)
	xrechnung := get(model.Version21, model.ProfileXRechnung)

	chain := []profile.Capability{minimum, basicWL, basic, comfort, extended}
	for i := 1; i < len(chain); i++ {
		for _, g := range chain[i-1].AllowedGroups() {
			assert.True(t, chain[i].IsGroupAllowed(g), "%s lost %s", chain[i].Profile, g)
		}
	}

	assert.False(t, minimum.IsGroupAllowed(profile.GroupLineItems))
	assert.False(t, basic.IsGroupAllowed(profile.GroupRoundingAmount))
	assert.False(t, basic.IsGroupAllowed(profile.GroupAttachments))
	assert.True(t, basic.IsGroupAllowed(profile.GroupProductCharacteristics))
	assert.True(t, comfort.IsGroupAllowed(profile.GroupAttachments))
	assert.False(t, comfort.IsGroupAllowed(profile.GroupInvoicee))
	assert.True(t, extended.IsGroupAllowed(profile.GroupInvoicee))

	assert.True(t, xrechnung.IsGroupAllowed(profile.GroupRoundingAmount))
	assert.True(t, xrechnung.IsGroupAllowed(profile.GroupContractReference))
	assert.False(t, xrechnung.IsGroupAllowed(profile.GroupContractIssueDate))
	assert.Len(t, xrechnung.AllowedGroups(), len(comfort.AllowedGroups())-1)
}

func TestVersion1Groups(t *testing.T) {
	for _, p := range profile.Profiles(model.Version1) {
		c, err := profile.Lookup(model.Version1, p)
		require.NoError(t, err)
		assert.False(t, c.IsGroupAllowed(profile.GroupRoundingAmount), p)
		assert.False(t, c.IsGroupAllowed(profile.GroupAttachments), p)
		assert.False(t, c.IsGroupAllowed(profile.GroupFinancialCard), p)
	}
	assert.Equal(t, []model.Profile{model.ProfileBasic, model.ProfileComfort, model.ProfileExtended}, profile.Profiles(model.Version1))
}

func TestTaxTypes(t *testing.T) {
	for _, c := range profile.All() {
		assert.True(t, c.IsTaxTypeAllowed(model.TaxTypeVAT), "%s %s", c.Version, c.Profile)
		if c.Profile == model.ProfileExtended {
			assert.True(t, c.IsTaxTypeAllowed(model.TaxTypePetroleumTax))
			assert.Len(t, c.AllowedTaxTypes(), len(model.AllTaxTypes()))
		} else {
			assert.False(t, c.IsTaxTypeAllowed(model.TaxTypePetroleumTax), "%s %s", c.Version, c.Profile)
			assert.Equal(t, []model.TaxType{model.TaxTypeVAT}, c.AllowedTaxTypes())
		}
	}
}

func TestDefaultAndVersions(t *testing.T) {
	assert.Equal(t, model.ProfileBasic, profile.Default(model.Version21))
	assert.Equal(t, model.ProfileBasic, profile.Default(model.Version1))
	assert.Equal(t, []model.Version{model.Version1, model.Version21}, profile.Versions())
	assert.Len(t, profile.Profiles(model.Version21), 7)
}

func TestConcurrentReads(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := profile.Lookup(model.Version21, model.ProfileExtended)
			assert.NoError(t, err)
			assert.True(t, c.IsGroupAllowed(profile.GroupShipFrom))
		}()
	}
	wg.Wait()
}
