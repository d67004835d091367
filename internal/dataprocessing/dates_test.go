package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "shillergen/internal/errors"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw       string
		wantYear  int
		wantMonth int
	}{
		{raw: "1953.12", wantYear: 1953, wantMonth: 12},
		{raw: "1953", wantYear: 1953, wantMonth: 0},
		{raw: "1953.", wantYear: 1953, wantMonth: 0},
		{raw: "1871.01", wantYear: 1871, wantMonth: 1},
		{raw: "1871.1", wantYear: 1871, wantMonth: 1},
		{raw: " 2023.06 ", wantYear: 2023, wantMonth: 6},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			year, month, err := ParseDate(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantYear, year)
			assert.Equal(t, tt.wantMonth, month)
		})
	}
}

func TestParseDate_Malformed(t *testing.T) {
	for _, raw := range []string{"", "Date", "abc.12", "1953.Dec", "1953.12.01", ".12"} {
		t.Run(raw, func(t *testing.T) {
			_, _, err := ParseDate(raw)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
			assert.Contains(t, err.Error(), "malformed date")
		})
	}
}
