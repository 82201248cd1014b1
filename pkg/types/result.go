package types

import "time"

// PolicyMatch is the highest-confidence match a single policy produced for a
// document.
type PolicyMatch struct {
	PolicyID     string  `json:"policy_id"`
	PolicyName   string  `json:"policy_name"`
	MatchID      string  `json:"match_id"`
	MatchName    string  `json:"match_name"`
	Confidence   float64 `json:"confidence"`
	TotalMatches int     `json:"total_matches"`
}

// ProcessingResult is the outcome of classifying and tagging one document.
// A non-empty Error short-circuits normal rendering.
type ProcessingResult struct {
	File           string        `json:"file"`
	Timestamp      time.Time     `json:"timestamp"`
	TextLength     int           `json:"text_length,omitempty"`
	Matches        []PolicyMatch `json:"matches,omitempty"`
	MatchesCount   int           `json:"matches_count"`
	Classification string        `json:"classification,omitempty"`
	Confidence     float64       `json:"confidence,omitempty"`
	Tagged         bool          `json:"tagged"`
	Error          string        `json:"error,omitempty"`
}

// FileError pairs a file with the error that stopped its processing.
type FileError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// BatchResult aggregates the outcomes of processing a directory of uploads.
type BatchResult struct {
	TotalFiles            int            `json:"total_files"`
	ProcessedFiles        int            `json:"processed_files"`
	Errors                []FileError    `json:"errors,omitempty"`
	ClassificationResults map[string]int `json:"classification_results"`
	StartTime             time.Time      `json:"start_time"`
	EndTime               time.Time      `json:"end_time"`
	ProcessingTimeSeconds float64        `json:"processing_time_seconds"`
	Error                 string         `json:"error,omitempty"`
}
