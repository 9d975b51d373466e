package dqi

import "errors"

// Analysis failures. All other stages are total over parsed input, so these
// are the only ways Analyze can fail.
var (
	// ErrRead wraps an I/O failure while reading the uploaded file.
	ErrRead = errors.New("read failure")

	// ErrNoData is returned when no data row survives parsing.
	ErrNoData = errors.New("no data found")

	// ErrHash is returned when the content digest could not be computed.
	ErrHash = errors.New("hash computation failed")
)
