package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
)

// writeCSV writes df with a header row. The file only appears at path once it
// is complete, so a failed run never leaves a partial output behind.
func writeCSV(df dataframe.DataFrame, path string, delimiter rune) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &OutputError{Path: path, Err: fmt.Errorf("failed to create directory: %w", err)}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &OutputError{Path: path, Err: fmt.Errorf("failed to create temp file: %w", err)}
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	w.Comma = delimiter
	if err = w.WriteAll(df.Records()); err != nil {
		return &OutputError{Path: path, Err: fmt.Errorf("failed to write records: %w", err)}
	}
	if err = tmp.Chmod(0o644); err != nil {
		return &OutputError{Path: path, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &OutputError{Path: path, Err: err}
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return &OutputError{Path: path, Err: fmt.Errorf("failed to move output into place: %w", err)}
	}
	return nil
}
