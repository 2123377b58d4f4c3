// pkg/converter/values.go
package converter

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ConvertElement converts a frame cell to a database/sql driver value.
// NA cells become NULL.
func (c *TypeConverter) ConvertElement(e series.Element) (interface{}, error) {
	if e == nil || e.IsNA() {
		return nil, nil
	}

	switch e.Type() {
	case series.Int:
		v, err := e.Int()
		if err != nil {
			return nil, err
		}
		return int64(v), nil
	case series.Float:
		f := e.Float()
		if math.IsInf(f, 0) {
			return nil, fmt.Errorf("cannot store infinite value")
		}
		return f, nil
	case series.Bool:
		return e.Bool()
	case series.String:
		return e.String(), nil
	default:
		return e.String(), nil
	}
}

// RowValues converts row r of the frame into driver values in column order
func (c *TypeConverter) RowValues(df dataframe.DataFrame, r int) ([]interface{}, error) {
	names := df.Names()
	values := make([]interface{}, len(names))
	for j, name := range names {
		v, err := c.ConvertElement(df.Elem(r, j))
		if err != nil {
			return nil, fmt.Errorf("row %d column %s: %w", r, name, err)
		}
		values[j] = v
	}
	return values, nil
}
