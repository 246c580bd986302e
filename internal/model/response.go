package model

// Response is the list envelope: { "results": [...] }.
type Response[T any] struct {
	Results []T `json:"results"`
}

// NewResponse wraps results; a nil slice is rendered as [].
func NewResponse[T any](results []T) Response[T] {
	if results == nil {
		results = []T{}
	}
	return Response[T]{Results: results}
}

// Len reports the number of results.
func (r Response[T]) Len() int {
	return len(r.Results)
}
