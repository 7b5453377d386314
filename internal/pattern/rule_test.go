package pattern

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spend-squad/internal/common"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		matches []string
		misses  []string
		wantErr bool
	}{
		{name: "empty", input: "", want: "any", matches: []string{"0.01", "9999"}},
		{name: "any keyword", input: "ANY", want: "any", matches: []string{"5"}},
		{name: "less than", input: "<20", want: "<20", matches: []string{"19.99"}, misses: []string{"20", "21"}},
		{name: "less equal", input: "<= 20", want: "<=20", matches: []string{"20"}, misses: []string{"20.01"}},
		{name: "equal", input: "=9.99", want: "=9.99", matches: []string{"9.99"}, misses: []string{"10"}},
		{name: "greater equal", input: ">=100", want: ">=100", matches: []string{"100", "250"}, misses: []string{"99.99"}},
		{name: "greater than", input: ">100", want: ">100", matches: []string{"100.01"}, misses: []string{"100"}},
		{name: "range", input: "10-50", want: "10-50", matches: []string{"10", "25", "50"}, misses: []string{"9.99", "50.01"}},
		{name: "bad number", input: "<abc", wantErr: true},
		{name: "no operator", input: "twenty", wantErr: true},
		{name: "reversed range", input: "50-10", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond, err := ParseCondition(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cond.String())

			for _, m := range tt.matches {
				assert.True(t, cond.Matches(decimal.RequireFromString(m)), "expected %s to match", m)
			}
			for _, m := range tt.misses {
				assert.False(t, cond.Matches(decimal.RequireFromString(m)), "expected %s not to match", m)
			}
		})
	}
}
