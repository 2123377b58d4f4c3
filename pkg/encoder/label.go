// pkg/encoder/label.go
package encoder

import (
	"fmt"
	"sort"
)

// LabelEncoder maps each distinct class to its position in the sorted class
// list. The fitted state is exported so callers can persist and reapply it.
type LabelEncoder struct {
	Classes    []string       `json:"classes"`
	ClassToInt map[string]int `json:"class_to_int"`
}

// FitLabelEncoder learns the distinct values of labels, sorted ascending
func FitLabelEncoder(labels []string) LabelEncoder {
	unique := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		unique[label] = struct{}{}
	}

	classes := make([]string, 0, len(unique))
	for label := range unique {
		classes = append(classes, label)
	}
	sort.Strings(classes)

	classToInt := make(map[string]int, len(classes))
	for i, class := range classes {
		classToInt[class] = i
	}

	return LabelEncoder{Classes: classes, ClassToInt: classToInt}
}

// Len returns the number of fitted classes
func (e LabelEncoder) Len() int {
	return len(e.Classes)
}

// Transform encodes labels. A label not seen at fit time is an error.
func (e LabelEncoder) Transform(labels []string) ([]int, error) {
	codes := make([]int, len(labels))
	for i, label := range labels {
		code, ok := e.ClassToInt[label]
		if !ok {
			return nil, fmt.Errorf("unknown label %q", label)
		}
		codes[i] = code
	}
	return codes, nil
}

// InverseTransform decodes codes back to their class labels
func (e LabelEncoder) InverseTransform(codes []int) ([]string, error) {
	labels := make([]string, len(codes))
	for i, code := range codes {
		if code < 0 || code >= len(e.Classes) {
			return nil, fmt.Errorf("unknown encoding %d", code)
		}
		labels[i] = e.Classes[code]
	}
	return labels, nil
}
