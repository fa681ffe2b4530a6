package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Milliunits
		wantErr bool
	}{
		{name: "plain dollars and cents", input: "57.57", want: 57570},
		{name: "currency symbol", input: "$116.20", want: 116200},
		{name: "thousands separator", input: "$1,234.56", want: 1234560},
		{name: "negative with symbol", input: "-$3.50", want: -3500},
		{name: "symbol then sign", input: "$-3.50", want: -3500},
		{name: "no fraction", input: "$42", want: 42000},
		{name: "single fractional digit", input: "$4.2", want: 4200},
		{name: "surrounding whitespace", input: "  $9.99 ", want: 9990},
		{name: "zero", input: "0.00", want: 0},
		{name: "empty", input: "", wantErr: true},
		{name: "just symbol", input: "$", wantErr: true},
		{name: "not a number", input: "$abc", wantErr: true},
		{name: "three fractional digits", input: "1.234", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$57.57", Milliunits(57570).Format())
	assert.Equal(t, "-$57.57", Milliunits(-57570).Format())
	assert.Equal(t, "$0.00", Milliunits(0).Format())
	assert.Equal(t, "$1234.50", Milliunits(1234500).Format())
}

func TestString(t *testing.T) {
	assert.Equal(t, "57.57", Milliunits(57570).String())
	assert.Equal(t, "-0.01", Milliunits(-10).String())
}

func TestAbs(t *testing.T) {
	assert.Equal(t, Milliunits(57570), Milliunits(-57570).Abs())
	assert.Equal(t, Milliunits(57570), Milliunits(57570).Abs())
}
