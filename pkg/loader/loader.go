// pkg/loader/loader.go
package loader

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"go.uber.org/zap"

	"github.com/David-Botos/catalog-prep/pkg/model"
)

// MissingTokens are the raw cell values treated as absent on load
var MissingTokens = []string{"", "NA", "NaN", "<nil>"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Option configures how a file is read
type Option func(*options)

type options struct {
	delimiter rune
}

// WithDelimiter sets the field delimiter (default ',')
func WithDelimiter(d rune) Option {
	return func(o *options) {
		if d != 0 {
			o.delimiter = d
		}
	}
}

// LoadCSV reads a header-ful delimited file into a frame. Any failure to open
// or parse the file is returned as a *model.LoadError.
func LoadCSV(path string, logger *zap.Logger, opts ...Option) (dataframe.DataFrame, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, &model.LoadError{Path: path, Err: err}
	}
	defer f.Close()

	df, err := Read(f, opts...)
	if err != nil {
		return dataframe.DataFrame{}, &model.LoadError{Path: path, Err: err}
	}

	logger.Info("Loaded dataset",
		zap.String("path", path),
		zap.Int("rows", df.Nrow()),
		zap.Int("columns", df.Ncol()))

	return df, nil
}

// Read parses delimited text from r. Text columns are always strings and
// release_year is always float, whatever the cells look like.
func Read(r io.Reader, opts ...Option) (dataframe.DataFrame, error) {
	o := options{delimiter: ','}
	for _, opt := range opts {
		opt(&o)
	}

	br := bufio.NewReader(r)
	// Excel exports often start with a byte order mark
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	df := dataframe.ReadCSV(br,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.WithDelimiter(o.delimiter),
		dataframe.NaNValues(MissingTokens),
		dataframe.WithTypes(columnTypes()),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to parse delimited data: %w", df.Err)
	}
	if df.Nrow() == 0 || df.Ncol() == 0 {
		return dataframe.DataFrame{}, errors.New("no data rows")
	}

	return df, nil
}

func columnTypes() map[string]series.Type {
	types := make(map[string]series.Type, len(model.TextColumns)+1)
	for _, name := range model.TextColumns {
		types[name] = series.String
	}
	types[model.ColReleaseYear] = series.Float
	return types
}
