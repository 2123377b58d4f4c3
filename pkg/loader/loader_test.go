package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/David-Botos/catalog-prep/pkg/model"
)

const sampleCSV = `show_id,type,title,director,cast,country,date_added,release_year,rating,duration,listed_in,description
s1,Movie,Dick Johnson Is Dead,Kirsten Johnson,,United States,"September 25, 2021",2020,PG-13,90 min,Documentaries,A documentary.
s2,TV Show,Blood & Water,,Ama Qamata,South Africa,"September 24, 2021",2021,TV-MA,2 Seasons,"International TV Shows, TV Dramas",A drama.
s3,Movie,1984,,,,,2019,NA,100 min,Dramas,Numbers.
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "titles.csv", sampleCSV)

	df, err := LoadCSV(path, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, 3, df.Nrow())
	assert.Equal(t, 12, df.Ncol())

	// Text columns stay strings even when the values look numeric
	assert.Equal(t, series.String, df.Col(model.ColDirector).Type())
	assert.Equal(t, series.String, df.Col("title").Type())
	assert.Equal(t, series.Float, df.Col(model.ColReleaseYear).Type())

	director := df.Col(model.ColDirector)
	assert.False(t, director.Elem(0).IsNA())
	assert.True(t, director.Elem(1).IsNA())

	rating := df.Col(model.ColRating)
	assert.True(t, rating.Elem(2).IsNA())
	assert.Equal(t, "TV-MA", rating.Elem(1).String())

	assert.Equal(t, "September 25, 2021", df.Col(model.ColDateAdded).Elem(0).String())
}

func TestLoadCSVDelimiter(t *testing.T) {
	content := strings.ReplaceAll("type;rating;release_year\nMovie;PG;2001\nTV Show;R;2002\n", "\n", "\r\n")
	path := writeFile(t, "titles.tsv", content)

	df, err := LoadCSV(path, nil, WithDelimiter(';'))
	require.NoError(t, err)
	assert.Equal(t, []string{"type", "rating", "release_year"}, df.Names())
	assert.Equal(t, 2, df.Nrow())
}

func TestReadStripsByteOrderMark(t *testing.T) {
	df, err := Read(strings.NewReader("\xEF\xBB\xBFtype,rating\nMovie,PG\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"type", "rating"}, df.Names())
}

func TestLoadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.csv") }},
		{"empty file", func(t *testing.T) string { return writeFile(t, "empty.csv", "") }},
		{"header only", func(t *testing.T) string { return writeFile(t, "header.csv", "type,rating\n") }},
		{"ragged rows", func(t *testing.T) string { return writeFile(t, "ragged.csv", "type,rating\nMovie\n") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path(t)
			_, err := LoadCSV(path, zaptest.NewLogger(t))
			require.Error(t, err)

			var loadErr *model.LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, path, loadErr.Path)
		})
	}
}
