package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"September 25, 2021", "2021-09-25"},
		{" August 4, 2017", "2017-08-04"},
		{"Dec 1, 2019", "2019-12-01"},
		{"2021-09-24", "2021-09-24"},
		{"2020-02-29T10:00:00", "2020-02-29"},
		{"03/15/2018", "2018-03-15"},
		{"2016/07/01", "2016-07-01"},
		{"1 March 2015", "2015-03-01"},
		{"13/01/2021", "2021-01-13"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format(DateLayout))
		})
	}
}

func TestParseDateRejects(t *testing.T) {
	for _, input := range []string{"", "   ", "32/13/2021", "not a date", "2021-13-45"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseDate(input)
			assert.Error(t, err)
		})
	}
}

func TestParseDateFallsBackToGenericParser(t *testing.T) {
	got, err := ParseDate("12 Feb 2006, 19:17")
	require.NoError(t, err)
	assert.Equal(t, "2006-02-12", got.Format(DateLayout))
	assert.Equal(t, "UTC", got.Location().String())
}
