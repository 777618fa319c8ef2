package source

import (
	"errors"
	"fmt"
)

var (
	ErrUploadUnsupported = errors.New("source does not accept uploads")
	ErrMalformedPayload  = errors.New("malformed payload")
	ErrBodyTooLarge      = errors.New("response body too large")
)

// FetchError reports a failed request to a source: transport failure, timeout,
// non-success status or a payload that is not the expected shape.
type FetchError struct {
	Source string
	Status int
	Detail string
	Err    error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s request failed", e.Source)
	if e.Status != 0 {
		msg += fmt.Sprintf(": status %d", e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// UploadError identifies the chunk that failed; chunks before it were applied.
type UploadError struct {
	Chunk       int
	TotalChunks int
	Status      int
	Detail      string
	Err         error
}

func (e *UploadError) Error() string {
	msg := fmt.Sprintf("upload chunk %d/%d failed", e.Chunk, e.TotalChunks)
	if e.Status != 0 {
		msg += fmt.Sprintf(": status %d", e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// NewUploadError carries the status and detail of a FetchError cause into the chunk report.
func NewUploadError(chunk, total int, err error) *UploadError {
	ue := &UploadError{Chunk: chunk, TotalChunks: total, Err: err}
	var fe *FetchError
	if errors.As(err, &fe) {
		ue.Status = fe.Status
		ue.Detail = fe.Detail
	} else if err != nil {
		ue.Detail = err.Error()
	}
	return ue
}
