package models

import "time"

// Country rows carry only their identifier. Documents and answers reference
// countries by this id.
type Country struct {
	ID string `json:"id"`
}

// Document is an NDC policy document row as produced by the ingestion
// pipeline. Embedding and chunk columns exist in the table but are not read
// by this service.
type Document struct {
	DocID          string     `json:"doc_id"`
	Country        *string    `json:"country,omitempty"`
	Title          *string    `json:"title,omitempty"`
	URL            *string    `json:"url,omitempty"`
	ExtractedText  *string    `json:"extracted_text,omitempty"`
	Language       *string    `json:"language,omitempty"`
	FileSize       *int64     `json:"file_size,omitempty"`
	SubmissionDate *time.Time `json:"submission_date,omitempty"`
	ProcessedAt    *time.Time `json:"processed_at,omitempty"`
}

type Question struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
}

// Answer is one research response for a (country, question) pair. Multiple
// rows per pair are valid and must never be collapsed.
type Answer struct {
	ID               string     `json:"id"`
	Country          string     `json:"country"`
	Question         int        `json:"question"`
	Summary          *string    `json:"summary,omitempty"`
	DetailedResponse *string    `json:"detailed_response,omitempty"`
	Timestamp        *time.Time `json:"timestamp,omitempty"`
}

// AnswerWithQuestion joins an answer to its question's text. QuestionText is
// nil when the join target is missing; callers render it blank rather than
// failing the page.
type AnswerWithQuestion struct {
	Answer
	QuestionText *string `json:"question_text,omitempty"`
}

// AnswerFK holds the foreign key columns of one answer row, fetched for
// per-country and per-question counting.
type AnswerFK struct {
	Country  string
	Question int
}
