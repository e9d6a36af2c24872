package usecase

// ScheduleReport summarizes one evaluate-and-schedule sweep. Failures are
// per-alert; one bad alert never aborts the sweep.
type ScheduleReport struct {
	Busy            bool `json:"busy,omitempty"`
	Evaluated       int  `json:"evaluated"`
	Due             int  `json:"due"`
	Scheduled       int  `json:"scheduled"`
	AlreadyInFlight int  `json:"already_in_flight"`
	Failed          int  `json:"failed"`
}

// InstantReport summarizes one instant-trigger pass over an ingestion batch.
type InstantReport struct {
	Alerts          int `json:"alerts"`
	Scheduled       int `json:"scheduled"`
	AlreadyInFlight int `json:"already_in_flight"`
	Failed          int `json:"failed"`
}

// ProcessReport summarizes one process-due sweep.
type ProcessReport struct {
	Busy      bool `json:"busy,omitempty"`
	Due       int  `json:"due"`
	RacesLost int  `json:"races_lost"`
	Sent      int  `json:"sent"`
	Skipped   int  `json:"skipped"`
	Failed    int  `json:"failed"`
}

// RecoverReport summarizes one stale-processing recovery pass.
type RecoverReport struct {
	Stale    int `json:"stale"`
	TimedOut int `json:"timed_out"`
	Failed   int `json:"failed"`
}
