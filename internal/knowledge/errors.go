package knowledge

import "errors"

// ErrMalformedKnowledge is returned when the document yields zero
// parseable sections. A reload that hits this keeps the previous store.
var ErrMalformedKnowledge = errors.New("knowledge document has no parseable sections")
