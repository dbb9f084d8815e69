package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr error
	}{
		{"text", CategoryScalarText, nil},
		{"multitext", CategoryMultilingualText, nil},
		{"integer", CategoryInteger, nil},
		{"date", CategoryDate, nil},
		{"select", CategorySingleSelect, nil},
		{"tags", CategoryMultiSelect, nil},
		{"Text", 0, ErrInvalidCategory},
		{"", 0, ErrInvalidCategory},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.want, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestCategoryPredicates(t *testing.T) {
	assert.True(t, CategoryScalarText.IsText())
	assert.True(t, CategoryMultilingualText.IsText())
	assert.False(t, CategoryInteger.IsText())
	assert.True(t, CategorySingleSelect.IsReference())
	assert.True(t, CategoryMultiSelect.IsReference())
	assert.False(t, Category(0).Valid(), "zero category")
	assert.False(t, Category(42).Valid(), "out-of-range category")
}

func TestParseRole(t *testing.T) {
	for in, want := range map[string]Role{
		"":           RoleUnspecified,
		"vernacular": RoleVernacular,
		"analysis":   RoleAnalysis,
	} {
		got, err := ParseRole(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseRole("gloss")
	assert.ErrorIs(t, err, ErrInvalidRole)
}
