package model

import (
	"strings"
	"time"
)

// LeadStatus represents where a lead sits in the acquisition funnel.
type LeadStatus string

const (
	StatusNew         LeadStatus = "New"
	StatusQualified   LeadStatus = "Qualified"
	StatusContacted   LeadStatus = "Contacted"
	StatusNegotiating LeadStatus = "Negotiating"
	StatusClosed      LeadStatus = "Closed"
)

// RawLead is a record as produced by a sourcing collaborator, before any
// analysis has run.
type RawLead struct {
	Address string `json:"address"`
	Owner   string `json:"owner"`
	Source  string `json:"source"`
	RawText string `json:"raw_text,omitempty"`
}

// Lead is a fully processed lead. Fields are set once during construction;
// a status change is a new observation, never an in-place edit of history.
type Lead struct {
	Address         string             `json:"address"`
	Owner           string             `json:"owner"`
	Status          LeadStatus         `json:"status"`
	EstimatedValue  float64            `json:"estimated_value,omitempty"`
	Analysis        *FinancialAnalysis `json:"financial_analysis,omitempty"`
	OutreachMessage string             `json:"outreach_message,omitempty"`
	Source          string             `json:"source,omitempty"`
	Timestamp       time.Time          `json:"timestamp"`
}

// PropertyHints carries optional attributes a sourcing collaborator managed
// to extract. The analyzer works off the address alone when hints are empty.
type PropertyHints struct {
	RawText string `json:"raw_text,omitempty"`
	Source  string `json:"source,omitempty"`
}

// CapRate returns the lead's cap rate, or 0 when no analysis is attached.
func (l *Lead) CapRate() float64 {
	if l.Analysis == nil {
		return 0
	}
	return l.Analysis.CapRate
}

// Neighborhood returns the address's neighborhood token: the substring after
// the last comma, trimmed. ok is false when the address has no comma.
func Neighborhood(address string) (token string, ok bool) {
	idx := strings.LastIndex(address, ",")
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(address[idx+1:]), true
}
