package models

// FilterCounts tallies why transactions were or were not eligible.
type FilterCounts struct {
	NotWaiting       int `json:"not_waiting"`
	Deleted          int `json:"deleted"`
	MissingCreated   int `json:"missing_created"`
	InvalidDate      int `json:"invalid_date"`
	TooOld           int `json:"too_old"`
	Valid            int `json:"valid"`
	MissingReference int `json:"missing_reference"`
	Duplicates       int `json:"duplicates"`
}

// SyncResult summarises one synchronization pass.
type SyncResult struct {
	BatchPath    string       `json:"batch_path"`
	Kind         BatchKind    `json:"kind"`
	Fetched      int          `json:"fetched"`
	RecordCount  int          `json:"record_count"`
	ValidCount   int          `json:"valid_count"`
	PhotoCount   int          `json:"photo_count"`
	MissingRegs  int          `json:"missing_registrations"`
	FilterCounts FilterCounts `json:"filter_counts"`
}
