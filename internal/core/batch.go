package core

// BatchResult captures the lookups for one invocation, in input order.
type BatchResult struct {
	Results []LookupResult
	// Width is the longest input name measured in characters.
	Width int
}

// Len returns the number of names in the batch.
func (b *BatchResult) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Results)
}

// Succeeded returns the lookups that produced a verdict, preserving order.
func (b *BatchResult) Succeeded() []LookupResult {
	if b == nil {
		return nil
	}
	out := make([]LookupResult, 0, len(b.Results))
	for _, result := range b.Results {
		if result.OK() {
			out = append(out, result)
		}
	}
	return out
}

// Failed returns the lookups that ended in an error, preserving order.
func (b *BatchResult) Failed() []LookupResult {
	if b == nil {
		return nil
	}
	out := make([]LookupResult, 0)
	for _, result := range b.Results {
		if !result.OK() {
			out = append(out, result)
		}
	}
	return out
}
