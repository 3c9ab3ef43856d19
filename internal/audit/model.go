package audit

import "time"

// Record summarizes one recommendation run. Records are write-only from the
// pipeline's point of view: nothing reads them back to shape a later answer.
type Record struct {
	ID           string    `json:"id"`
	RequestID    string    `json:"request_id,omitempty"`
	Hero         string    `json:"hero"`
	Role         string    `json:"role"`
	Rank         string    `json:"rank"`
	Patch        string    `json:"patch"`
	Minute       *int      `json:"minute,omitempty"`
	Outcome      string    `json:"outcome"`
	InitialTotal int       `json:"initial_total"`
	FinalTotal   int       `json:"final_total"`
	LLMCalls     int       `json:"llm_calls"`
	ErrorCode    string    `json:"error_code,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
