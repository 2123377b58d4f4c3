// pkg/scaler/scaler.go
package scaler

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"

	"github.com/David-Botos/catalog-prep/pkg/model"
)

// Stage names the scaling step in schema errors
const Stage = "scaling"

// Params holds the population mean and standard deviation fitted for a column
type Params struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// StandardScaler standardizes columns as (x - mean) / std using parameters
// learned once by Fit
type StandardScaler struct {
	Columns []string          `json:"columns"`
	Params  map[string]Params `json:"params"`
}

// Fit learns mean and population std per column, ignoring absent values
func Fit(df dataframe.DataFrame, columns []string) (StandardScaler, error) {
	if err := model.RequireColumns(df, Stage, columns...); err != nil {
		return StandardScaler{}, err
	}

	s := StandardScaler{
		Columns: append([]string(nil), columns...),
		Params:  make(map[string]Params, len(columns)),
	}
	for _, name := range columns {
		s.Params[name] = fitColumn(df.Col(name).Float())
	}
	return s, nil
}

// Transform returns df with every fitted column replaced by its standardized
// float values. Zero-variance columns and absent values become 0.
func (s StandardScaler) Transform(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := model.RequireColumns(df, Stage, s.Columns...); err != nil {
		return dataframe.DataFrame{}, err
	}

	out := df
	for _, name := range s.Columns {
		p, ok := s.Params[name]
		if !ok {
			return dataframe.DataFrame{}, fmt.Errorf("scaler has no parameters for %s", name)
		}
		out = out.Mutate(series.New(p.apply(df.Col(name).Float()), series.Float, name))
		if out.Err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("failed to scale %s: %w", name, out.Err)
		}
	}
	return out, nil
}

// ScaleFeatures fits a scaler over the numeric feature columns and applies it
func ScaleFeatures(df dataframe.DataFrame) (dataframe.DataFrame, StandardScaler, error) {
	if df.Err != nil {
		return dataframe.DataFrame{}, StandardScaler{}, fmt.Errorf("invalid input frame: %w", df.Err)
	}

	s, err := Fit(df, model.ScaledColumns)
	if err != nil {
		return dataframe.DataFrame{}, StandardScaler{}, err
	}

	out, err := s.Transform(df)
	if err != nil {
		return dataframe.DataFrame{}, StandardScaler{}, err
	}
	return out, s, nil
}

func fitColumn(values []float64) Params {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return Params{}
	}

	mean, std := stat.PopMeanStdDev(present, nil)
	// Rounding noise on a constant column is not variance
	if math.IsNaN(std) || std <= 10*epsilon*math.Max(1, math.Abs(mean)) {
		std = 0
	}
	return Params{Mean: mean, Std: std}
}

const epsilon = 2.220446049250313e-16

func (p Params) apply(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) || p.Std == 0 {
			// Absent values take the mean, which standardizes to 0
			continue
		}
		out[i] = (v - p.Mean) / p.Std
	}
	return out
}
