// Package corpusapi provides the corpus search endpoint adapter.
//
// The client issues GET {endpoint}/corpus/search?limit=N&q=TEXT, omitting q
// when the text is empty, and decodes the {"results": [...], "total": N}
// envelope into a domain.ResultPage. Requests pass through a token bucket
// limiter that also honours Retry-After on 429 responses.
package corpusapi
