package textvec

import "errors"

// Sentinel kinds for vectorizer errors.
var (
	ErrUnknownStopWords = errors.New("unknown stop word list")
)
