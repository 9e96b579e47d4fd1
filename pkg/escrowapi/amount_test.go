package escrowapi_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-escrow/pkg/escrowapi"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   uint64
		decimals uint8
		expected string
	}{
		{0, 6, "0"},
		{1500, 3, "1.5"},
		{1, 9, "0.000000001"},
		{1000, 0, "1000"},
		{^uint64(0), 0, "18446744073709551615"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.expected, escrowapi.FormatAmount(tt.amount, tt.decimals))
	}
}

func TestParseAmount(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		tests := []struct {
			amount   string
			decimals uint8
			expected uint64
		}{
			{"1.5", 3, 1500},
			{"0.000000001", 9, 1},
			{"1000", 0, 1000},
			{"18446744073709551615", 0, ^uint64(0)},
		}
		for _, tt := range tests {
			units, err := escrowapi.ParseAmount(tt.amount, tt.decimals)
			require.NoError(t, err)
			require.Equal(t, tt.expected, units)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		tests := []struct {
			name     string
			amount   string
			decimals uint8
		}{
			{"not_a_number", "abc", 6},
			{"negative", "-1", 6},
			{"too_precise", "0.0000001", 6},
			{"overflow", "18446744073709551616", 0},
		}
		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				_, err := escrowapi.ParseAmount(tt.amount, tt.decimals)
				require.Error(t, err)
			})
		}
	})
}
