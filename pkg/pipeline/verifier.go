package pipeline

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"go.uber.org/zap"

	"github.com/David-Botos/catalog-prep/pkg/encoder"
	"github.com/David-Botos/catalog-prep/pkg/model"
)

// Issue is a single problem found in the final table
type Issue struct {
	Check        string
	Column       string
	Description  string
	AffectedRows int
}

// VerificationReport contains the results of verifying the final table
type VerificationReport struct {
	VerificationTime time.Time
	Rows             int
	Columns          int
	ColumnsMatch     bool
	Issues           []Issue
	Duration         time.Duration
}

// Passed reports whether the table is fit to be written
func (r *VerificationReport) Passed() bool {
	return r.ColumnsMatch && len(r.Issues) == 0
}

// VerificationError is returned when the final table fails verification
type VerificationError struct {
	Report *VerificationReport
}

func (e *VerificationError) Error() string {
	parts := make([]string, 0, len(e.Report.Issues))
	for _, issue := range e.Report.Issues {
		parts = append(parts, fmt.Sprintf("%s(%s): %s", issue.Check, issue.Column, issue.Description))
	}
	return "final table failed verification: " + strings.Join(parts, "; ")
}

// Verifier checks the final table before it leaves the pipeline
type Verifier struct {
	logger *zap.Logger
}

// NewVerifier creates a new verifier
func NewVerifier(logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{logger: logger}
}

// binaryColumns may only hold 0 or 1
var binaryColumns = []string{model.ColHasDirector, model.ColHasCast, model.ColTypeEncoded}

// Verify checks column order, absence of missing values, binary flags and
// encoded codes against the fitted encoders. A failing table yields both the
// report and a *VerificationError.
func (v *Verifier) Verify(df dataframe.DataFrame, encoders encoder.Encoders) (*VerificationReport, error) {
	start := time.Now()
	report := &VerificationReport{
		VerificationTime: start,
		Rows:             df.Nrow(),
		Columns:          df.Ncol(),
		ColumnsMatch:     equalNames(df.Names(), model.FinalColumns),
	}

	if !report.ColumnsMatch {
		report.Issues = append(report.Issues, Issue{
			Check:       "structure",
			Description: fmt.Sprintf("expected columns %v, got %v", model.FinalColumns, df.Names()),
		})
	}

	for _, name := range df.Names() {
		col := df.Col(name)
		if n := countMissing(col.IsNaN()); n > 0 {
			report.Issues = append(report.Issues, Issue{
				Check:        "missing",
				Column:       name,
				Description:  "column holds missing values",
				AffectedRows: n,
			})
		}
	}

	if report.ColumnsMatch {
		for _, name := range binaryColumns {
			v.checkRange(df, name, 2, report)
		}
		v.checkRange(df, model.ColRatingEncoded, encoders.Rating.Len(), report)
		v.checkRange(df, model.ColDurationTypeEncoded, encoders.DurationType.Len(), report)
	}

	report.Duration = time.Since(start)

	if !report.Passed() {
		v.logger.Warn("Final table failed verification",
			zap.Int("issues", len(report.Issues)),
			zap.Int("rows", report.Rows))
		return report, &VerificationError{Report: report}
	}

	v.logger.Info("Final table verified",
		zap.Int("rows", report.Rows),
		zap.Int("columns", report.Columns))
	return report, nil
}

// checkRange records an issue for every value of column outside [0, upper)
func (v *Verifier) checkRange(df dataframe.DataFrame, column string, upper int, report *VerificationReport) {
	values := df.Col(column).Float()
	bad := 0
	for _, x := range values {
		if math.IsNaN(x) || x < 0 || x >= float64(upper) || x != float64(int(x)) {
			bad++
		}
	}
	if bad > 0 {
		report.Issues = append(report.Issues, Issue{
			Check:        "range",
			Column:       column,
			Description:  fmt.Sprintf("values outside [0, %d)", upper),
			AffectedRows: bad,
		})
	}
}

func countMissing(flags []bool) int {
	n := 0
	for _, missing := range flags {
		if missing {
			n++
		}
	}
	return n
}

func equalNames(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
