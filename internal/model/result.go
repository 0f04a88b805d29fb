package model

// PipelineResult is the externally visible output of one pipeline run.
// Evidence is empty only when neither supplied content nor search yielded
// anything usable.
type PipelineResult struct {
	Query          string         `json:"query"`
	Evidence       []EvidenceItem `json:"summaries"`
	Answer         string         `json:"consolidated_summary"`
	GenerationTime float64        `json:"generation_time"`
	IsQuestion     bool           `json:"isQuestion"`
}

// QueryIntent is the classifier's verdict on a query. It is derived on every
// call and never stored.
type QueryIntent struct {
	IsQuestion   bool
	IsComparison bool
}
