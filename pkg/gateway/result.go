package gateway

import "sort"

// Outcome is the per-key result of a batch fetch. Per key it is
// all-or-nothing: either Value is set or Err is non-nil, never both.
type Outcome[V any] struct {
	Value V
	Err   error
}

// Result maps each requested key to its independent outcome.
type Result[V any] map[string]Outcome[V]

// Succeeded returns the sorted keys that resolved to a value.
func (r Result[V]) Succeeded() []string {
	keys := make([]string, 0, len(r))
	for key, outcome := range r {
		if outcome.Err == nil {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Failed returns the sorted keys that resolved to an error.
func (r Result[V]) Failed() []string {
	keys := make([]string, 0)
	for key, outcome := range r {
		if outcome.Err != nil {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Values returns the successful payloads keyed by their request key.
func (r Result[V]) Values() map[string]V {
	values := make(map[string]V, len(r))
	for key, outcome := range r {
		if outcome.Err == nil {
			values[key] = outcome.Value
		}
	}
	return values
}

// FailureCount returns the number of failed keys.
func (r Result[V]) FailureCount() int {
	count := 0
	for _, outcome := range r {
		if outcome.Err != nil {
			count++
		}
	}
	return count
}
