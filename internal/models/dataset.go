package models

import "time"

// Dataset is the result of one fetchDataset call. A zero Timestamp with no records
// signals that no source and no cache could serve the request.
type Dataset struct {
	Records   []Record  `json:"records"`
	FromCache bool      `json:"from_cache"`
	Stale     bool      `json:"stale"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Dropped   int       `json:"dropped"`
}

func (d Dataset) Available() bool {
	return !d.Timestamp.IsZero()
}
