package model

import "time"

// RunState is the orchestrator's position in its per-run state machine.
type RunState string

const (
	StateIdle            RunState = "idle"
	StateSourcing        RunState = "sourcing"
	StateProcessingBatch RunState = "processing_batch"
	StateReporting       RunState = "reporting"
)

// RecordResult captures the outcome of processing one sourced record.
// Index is the record's position in source order.
type RecordResult struct {
	Index   int    `json:"index"`
	Address string `json:"address"`
	Error   string `json:"error,omitempty"`
}

// RunReport summarizes a completed pipeline run.
type RunReport struct {
	TotalLeads     int                `json:"total_leads"`
	ByStatus       map[LeadStatus]int `json:"by_status"`
	PortfolioValue float64            `json:"estimated_portfolio_value"`
	AvgCapRate     float64            `json:"avg_cap_rate"`
	Failures       []RecordResult     `json:"failures,omitempty"`
	Sourced        int                `json:"sourced"`
	Markdown       string             `json:"report,omitempty"`
}

// Run is a persisted record of one pipeline run.
type Run struct {
	ID        string     `json:"id"`
	Sources   []string   `json:"sources"`
	State     RunState   `json:"state"`
	Report    *RunReport `json:"report,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
