package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBit(t *testing.T) {
	assert.Equal(t, "010", EncodeBit(Zero))
	assert.Equal(t, "110", EncodeBit(One))
	assert.NotEqual(t, EncodeBit(Zero), EncodeBit(One))
}

func TestNibbleSymbols(t *testing.T) {
	tests := []struct {
		name string
		n    Nibble
		want string
	}{
		{"sw8 default", DefaultSW8, "010010010010"},
		{"sw9 default", DefaultSW9, "010010110110"},
		{"all ones", 0b1111, "110110110110"},
		{"msb first", 0b1000, "110010010010"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.n.Symbols()
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, NibbleSymbols)
		})
	}
}

func TestParseNibble(t *testing.T) {
	tests := []struct {
		in      string
		want    Nibble
		wantErr bool
	}{
		{in: "0011", want: 0b0011},
		{in: "010010110110", want: 0b0011},
		{in: " 1010 ", want: 0b1010},
		{in: "110010110010", want: 0b1010},
		{in: "0012", wantErr: true},
		{in: "011010110110", wantErr: true},
		{in: "00110", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNibble(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrSymbol)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSwitchWrapsInvalidSwitch(t *testing.T) {
	_, err := ParseSwitch("abc")
	assert.ErrorIs(t, err, ErrInvalidSwitch)

	n, err := ParseSwitch("010010010010")
	require.NoError(t, err)
	assert.Equal(t, DefaultSW8, n)
}

func TestNibbleString(t *testing.T) {
	assert.Equal(t, "0011", DefaultSW9.String())
	assert.Equal(t, "1010", Off.Code().String())
}
