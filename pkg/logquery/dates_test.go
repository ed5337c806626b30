package logquery_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokentrace/tokentrace-go/pkg/logquery"
)

func TestValidateDateFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "valid date", input: "2024-01-15", want: "2024-01-15T00:00:00"},
		{name: "end of year", input: "2023-12-31", want: "2023-12-31T00:00:00"},
		{name: "us format rejected", input: "01/15/2024", wantErr: true},
		{name: "datetime rejected", input: "2024-01-15T10:00:00", wantErr: true},
		{name: "missing padding rejected", input: "2024-1-5", wantErr: true},
		{name: "impossible day rejected", input: "2024-02-31", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := logquery.ValidateDateFormat(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, logquery.ErrInvalidArgument))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatDateForDisplay(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "datetime", input: "2024-01-15T00:00:00", want: "2024-01-15"},
		{name: "datetime with time", input: "2024-01-15T18:45:30", want: "2024-01-15"},
		{name: "datetime with offset", input: "2024-01-15T00:00:00Z", want: "2024-01-15"},
		{name: "date only", input: "2024-01-15", want: "2024-01-15"},
		{name: "invalid returned unchanged", input: "not-a-date", want: "not-a-date"},
		{name: "empty returned unchanged", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logquery.FormatDateForDisplay(tt.input))
		})
	}
}
