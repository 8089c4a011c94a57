package scoring

import "fmt"

type UnknownCategoryError struct {
	Key string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown scoring category %q", e.Key)
}

type IndicatorCountError struct {
	Key  string
	Got  int
	Want int
}

func (e *IndicatorCountError) Error() string {
	return fmt.Sprintf("category %q has %d indicator scores, rubric allows %d", e.Key, e.Got, e.Want)
}
