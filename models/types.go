// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Event names pushed over the live stream.
const (
	EventConnected        = "connected"
	EventVoteUpdate       = "vote-update"
	EventAutoInsight      = "auto-insight"
	EventVisibilityChange = "visibility-change"
)

// Poll creation limits
const (
	MaxOptionsPerPoll  = 4
	DefaultExpiryHours = 24
)

// Request types

type CreatePollRequest struct {
	Question    string `json:"question"`
	Options     string `json:"options"`
	ExpiryHours int    `json:"expiryHours"`
}

type VoteRequest struct {
	OptionID   string `json:"optionId"`
	VoterToken string `json:"voterToken"`
}

// Response types

type PollResponse struct {
	ID                string           `json:"id"`
	Question          string           `json:"question"`
	ExpiresAt         time.Time        `json:"expiresAt"`
	ResultsVisible    bool             `json:"resultsVisible"`
	SecretKey         string           `json:"secretKey,omitempty"`
	UserVotedOptionID string           `json:"userVotedOptionId,omitempty"`
	Insight           string           `json:"insight,omitempty"`
	Options           []OptionResponse `json:"options"`
}

type OptionResponse struct {
	ID         string `json:"id"`
	OptionText string `json:"optionText"`
	Votes      int    `json:"votes"`
}

type VoteResponse struct {
	Message string `json:"message"`
}

type ToggleResultsResponse struct {
	Message        string `json:"message"`
	ResultsVisible bool   `json:"resultsVisible"`
}

type ShareURLsResponse struct {
	PollURL    string `json:"pollUrl"`
	CreatorURL string `json:"creatorUrl"`
	QRCodeURL  string `json:"qrCodeUrl"`
	ShareURL   string `json:"shareUrl"`
}

// Domain types

type Poll struct {
	ID             string    `json:"id"`
	Question       string    `json:"question"`
	ExpiresAt      time.Time `json:"expires_at"`
	ResultsVisible bool      `json:"results_visible"`
	SecretKey      string    `json:"-"` // Never expose in JSON
	CreatedAt      time.Time `json:"created_at"`
	Options        []Option  `json:"options"`
}

type Option struct {
	ID         string `json:"id"`
	PollID     string `json:"poll_id"`
	OptionText string `json:"option_text"`
	Votes      int    `json:"votes"`
}

type Vote struct {
	ID         string    `json:"id"`
	PollID     string    `json:"poll_id"`
	OptionID   string    `json:"option_id"`
	VoterToken string    `json:"-"` // Never expose in JSON
	CreatedAt  time.Time `json:"created_at"`
}

// Tally types

// OptionTally is one option's running count, listed in the poll's
// creation order.
type OptionTally struct {
	OptionID   string `json:"option_id"`
	OptionText string `json:"option_text"`
	Votes      int    `json:"votes"`
}

// TallySnapshot is the full per-option state of a poll at one moment.
type TallySnapshot struct {
	PollID     string        `json:"poll_id"`
	TotalVotes int           `json:"total_votes"`
	Options    []OptionTally `json:"options"`
}

// Stream payload shapes

type OptionCount struct {
	Votes      int     `json:"votes"`
	Percentage float64 `json:"percentage"`
}

type VoteUpdatePayload struct {
	PollID     string                 `json:"pollId"`
	TotalVotes int                    `json:"totalVotes"`
	Options    map[string]OptionCount `json:"options"`
}

type InsightPayload struct {
	Insight string `json:"insight"`
}

type VisibilityPayload struct {
	ResultsVisible bool `json:"resultsVisible"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
