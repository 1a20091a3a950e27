package prompts

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestApply_DepreciationNeedsBothFigures(t *testing.T) {
	rows, err := Apply(map[string]string{KeyTaxDepreciation: "7500"})
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = Apply(map[string]string{
		KeyTaxDepreciation:  "7500",
		KeyBookDepreciation: "9000",
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Book vs Tax Depreciation", rows[0].Description)
	assert.True(t, rows[0].Adjustment.Equal(dec("1500")))
	assert.True(t, rows[0].TRAmount.Equal(dec("7500")))
}

func TestApply_DisallowedInterest(t *testing.T) {
	rows, err := Apply(map[string]string{KeyDisallowedInterest: "2400"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].BookAmount.Equal(dec("2400")))
	assert.True(t, rows[0].Adjustment.Equal(dec("2400")))
	assert.True(t, rows[0].TRAmount.IsZero())
}

func TestApply_Section481a(t *testing.T) {
	rows, err := Apply(map[string]string{KeySection481a: "-300"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].BookAmount.IsZero())
	assert.True(t, rows[0].Adjustment.Equal(dec("-300")))
	assert.True(t, rows[0].TRAmount.Equal(dec("-300")))
}

func TestApply_BlankAnswersIgnored(t *testing.T) {
	rows, err := Apply(map[string]string{KeySection481a: "  "})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestApply_NonNumericFailsRequest(t *testing.T) {
	_, err := Apply(map[string]string{KeyDisallowedInterest: "a lot"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), KeyDisallowedInterest)
}

func TestReview_StableIDs(t *testing.T) {
	require.Len(t, Review, 3)
	assert.Equal(t, KeyTaxDepreciation, Review[0].ID)
	assert.Equal(t, KeyDisallowedInterest, Review[1].ID)
	assert.Equal(t, KeySection481a, Review[2].ID)
}
