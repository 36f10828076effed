package codes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		code string
		want Attribute
		ok   bool
	}{
		{"R", DatabaseTableIdentifier, true},
		{"T", TransactionType, true},
		{"5", "projectNumber", true},
		{"12", StationName, true},
		{"900", StationName, true},
		{"32", SiteWebReadyCode, true},
		{"806", "remarks", true},
		{"34", "", false},
		{"999", "", false},
		{"t", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := Lookup(tt.code)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAll_OrderAndCopy(t *testing.T) {
	entries := All()
	require.Len(t, entries, Len())

	assert.Equal(t, "R", entries[0].Code)
	assert.Equal(t, "T", entries[1].Code)
	assert.Equal(t, "3", entries[2].Code)
	assert.Equal(t, "5", entries[3].Code)
	assert.Equal(t, "900", entries[len(entries)-1].Code)

	entries[0].Attribute = "mutated"
	attr, ok := Lookup("R")
	require.True(t, ok)
	assert.Equal(t, DatabaseTableIdentifier, attr)
}

func TestAttributes_Distinct(t *testing.T) {
	attrs := Attributes()
	assert.Len(t, attrs, Len()-1, "12 and 900 share stationName")
	assert.Contains(t, attrs, StationName)
}
