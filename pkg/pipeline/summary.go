package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"github.com/David-Botos/catalog-prep/pkg/model"
)

var rule = strings.Repeat("=", 70)

// Summary describes the final table for the run report
type Summary struct {
	Samples  int
	Features int // Columns other than the target
	Movies   int // Rows with type_encoded == 1
	TVShows  int // Rows with type_encoded == 0
}

// Summarize counts samples, features and the target distribution of df
func Summarize(df dataframe.DataFrame) (Summary, error) {
	if err := model.RequireColumns(df, "summary", model.TargetColumn); err != nil {
		return Summary{}, err
	}

	s := Summary{
		Samples:  df.Nrow(),
		Features: df.Ncol() - 1,
	}
	for _, v := range df.Col(model.TargetColumn).Float() {
		switch v {
		case 1:
			s.Movies++
		case 0:
			s.TVShows++
		}
	}
	return s, nil
}

// MoviePercent returns the share of Movie rows, 0 for an empty table
func (s Summary) MoviePercent() float64 {
	return percent(s.Movies, s.Samples)
}

// TVShowPercent returns the share of TV Show rows, 0 for an empty table
func (s Summary) TVShowPercent() float64 {
	return percent(s.TVShows, s.Samples)
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// Write prints the summary block
func (s Summary) Write(w io.Writer) error {
	_, err := fmt.Fprintf(w, `
%s
SUMMARY
%s
Total samples: %d
Total features: %d (+ 1 target)
Target distribution:
  - Movie (1): %d (%.2f%%)
  - TV Show (0): %d (%.2f%%)
%s
`,
		rule, rule,
		s.Samples,
		s.Features,
		s.Movies, s.MoviePercent(),
		s.TVShows, s.TVShowPercent(),
		rule,
	)
	return err
}

// WritePreview prints the first n rows of df
func WritePreview(w io.Writer, df dataframe.DataFrame, n int) error {
	if n > df.Nrow() {
		n = df.Nrow()
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}

	_, err := fmt.Fprintf(w, "\nSample data (first %d rows):\n%s\n", n, df.Subset(rows).String())
	return err
}
