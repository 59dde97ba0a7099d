package model

// FetchResult reports the outcome of one ingestion run.
type FetchResult struct {
	Inserted          int `json:"inserted"`
	SkippedDuplicates int `json:"skipped_duplicates"`
}
