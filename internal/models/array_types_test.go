package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleStringListScan(t *testing.T) {
	tests := []struct {
		name     string
		src      interface{}
		expected FlexibleStringList
	}{
		{"Postgres Array Literal", []byte(`{Eksekutif,Bisnis}`), FlexibleStringList{"Eksekutif", "Bisnis"}},
		{"JSON Array", []byte(`["Eksekutif","Bisnis"]`), FlexibleStringList{"Eksekutif", "Bisnis"}},
		{"Comma Separated String", "Eksekutif, Bisnis", FlexibleStringList{"Eksekutif", "Bisnis"}},
		{"Single Value", "Ekonomi", FlexibleStringList{"Ekonomi"}},
		{"Empty String", "", nil},
		{"Nil", nil, nil},
		{"Empty Array Literal", []byte(`{}`), FlexibleStringList{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var list FlexibleStringList
			require.NoError(t, list.Scan(tt.src))
			if tt.expected == nil {
				assert.Nil(t, list)
			} else {
				assert.Equal(t, tt.expected, list)
			}
		})
	}
}

func TestFlexibleStringListContains(t *testing.T) {
	list := FlexibleStringList{"Eksekutif", "Bisnis"}

	assert.True(t, list.Contains("Eksekutif"))
	assert.True(t, list.Contains("eksekutif"))
	assert.False(t, list.Contains("Ekonomi"))
	assert.False(t, FlexibleStringList(nil).Contains("Eksekutif"))
}
