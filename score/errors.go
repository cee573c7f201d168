package score

import "errors"

// ErrInsufficientData marks a sequence that is empty or below the
// minimum length a computation needs. Surfaced per axis; the scoring
// call as a whole fails with it only when every axis does.
var ErrInsufficientData = errors.New("insufficient data")
