package batch

import (
	"errors"
	"fmt"

	beam "SimStruct/internal/calc/beam"
)

var ErrNoItems = errors.New("no items")

type Input struct {
	Items []beam.Input `json:"items"`
}

type Output struct {
	Results []beam.Result `json:"results"`
}

// Analyze runs the engine over every item. The first invalid item aborts
// the batch.
func Analyze(in Input) (Output, error) {
	if len(in.Items) == 0 {
		return Output{}, ErrNoItems
	}
	out := Output{Results: make([]beam.Result, 0, len(in.Items))}
	for i, item := range in.Items {
		if err := item.Validate(); err != nil {
			return Output{}, fmt.Errorf("item %d: %w", i, err)
		}
		res := beam.Analyze(item)
		if !res.Finite() {
			return Output{}, fmt.Errorf("item %d: non-finite result", i)
		}
		out.Results = append(out.Results, res)
	}
	return out, nil
}
