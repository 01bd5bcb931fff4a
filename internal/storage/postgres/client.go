package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/ndc-explorer/backend/internal/metrics"
	"github.com/ndc-explorer/backend/internal/storage"
	"github.com/ndc-explorer/backend/internal/storage/models"
	"github.com/ndc-explorer/backend/pkg/logger"
)

// Client issues read-only queries against the hosted catalog database. All
// five tables are populated by the external ingestion pipeline; nothing here
// writes. Zero matched rows is always an empty slice, never an error.
type Client struct {
	db *sql.DB
}

// searchResultLimit caps each per-entity search result set.
const searchResultLimit = 20

func NewClient(databaseURL string, maxOpenConns, maxIdleConns int) (*Client, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	logger.Info("Postgres client initialized",
		zap.Int("max_open_conns", maxOpenConns),
		zap.Int("max_idle_conns", maxIdleConns),
	)

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// ListCountries returns every country ordered by id ascending.
func (c *Client) ListCountries(ctx context.Context) (countries []models.Country, err error) {
	defer metrics.TrackStoreQuery("list_countries", time.Now(), &err)

	rows, err := c.db.QueryContext(ctx, `SELECT id FROM countries ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var country models.Country
		if err := rows.Scan(&country.ID); err != nil {
			return nil, fmt.Errorf("failed to scan country row: %w", err)
		}
		countries = append(countries, country)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read country rows: %w", err)
	}

	return countries, nil
}

// ListCountryDocumentFKs returns the country column of every attributed
// document. Unattributed documents (NULL country) are excluded; the result
// is used only for per-country counting.
func (c *Client) ListCountryDocumentFKs(ctx context.Context) (fks []string, err error) {
	defer metrics.TrackStoreQuery("list_country_document_fks", time.Now(), &err)

	rows, err := c.db.QueryContext(ctx, `SELECT country FROM documents WHERE country IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to list document country fks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var country string
		if err := rows.Scan(&country); err != nil {
			return nil, fmt.Errorf("failed to scan document country fk: %w", err)
		}
		fks = append(fks, country)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read document country fks: %w", err)
	}

	return fks, nil
}

// ListAnswerCountryFKs returns the country column of every answer row, one
// entry per row. Duplicate (country, question) pairs appear once per row so
// counts stay per-row, not per-pair.
func (c *Client) ListAnswerCountryFKs(ctx context.Context) (fks []string, err error) {
	defer metrics.TrackStoreQuery("list_answer_country_fks", time.Now(), &err)

	rows, err := c.db.QueryContext(ctx, `SELECT country FROM questions_answers`)
	if err != nil {
		return nil, fmt.Errorf("failed to list answer country fks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var country string
		if err := rows.Scan(&country); err != nil {
			return nil, fmt.Errorf("failed to scan answer country fk: %w", err)
		}
		fks = append(fks, country)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read answer country fks: %w", err)
	}

	return fks, nil
}

// ListAnswerQuestionFKs returns the (question, country) columns of every
// answer row for per-question counting.
func (c *Client) ListAnswerQuestionFKs(ctx context.Context) (fks []models.AnswerFK, err error) {
	defer metrics.TrackStoreQuery("list_answer_question_fks", time.Now(), &err)

	rows, err := c.db.QueryContext(ctx, `SELECT question, country FROM questions_answers ORDER BY question ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list answer question fks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fk models.AnswerFK
		if err := rows.Scan(&fk.Question, &fk.Country); err != nil {
			return nil, fmt.Errorf("failed to scan answer question fk: %w", err)
		}
		fks = append(fks, fk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read answer question fks: %w", err)
	}

	return fks, nil
}

// GetCountryDocuments returns the documents attributed to one country,
// newest submission first. NULL submission dates sort last.
func (c *Client) GetCountryDocuments(ctx context.Context, countryID string) (docs []models.Document, err error) {
	defer metrics.TrackStoreQuery("get_country_documents", time.Now(), &err)

	query := documentColumns + `
		FROM documents
		WHERE country = $1
		ORDER BY submission_date DESC NULLS LAST`

	rows, err := c.db.QueryContext(ctx, query, countryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get country documents: %w", err)
	}
	defer rows.Close()

	docs, err = scanDocuments(rows)
	if err != nil {
		return nil, err
	}

	logger.Debug("Country documents fetched",
		zap.String("country", countryID),
		zap.Int("count", len(docs)),
	)
	return docs, nil
}

// GetCountryAnswers returns one country's answers joined with their question
// text, newest first. A missing join target leaves QuestionText nil; the
// answer row is still returned.
func (c *Client) GetCountryAnswers(ctx context.Context, countryID string) (answers []models.AnswerWithQuestion, err error) {
	defer metrics.TrackStoreQuery("get_country_answers", time.Now(), &err)

	query := `
		SELECT a.id, a.country, a.question, a.summary, a.detailed_response, a.timestamp, q.question
		FROM questions_answers a
		LEFT JOIN questions q ON q.id = a.question
		WHERE a.country = $1
		ORDER BY a.timestamp DESC`

	rows, err := c.db.QueryContext(ctx, query, countryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get country answers: %w", err)
	}
	defer rows.Close()

	return scanAnswersWithQuestion(rows)
}

// ListQuestions returns every research question ordered by id ascending.
func (c *Client) ListQuestions(ctx context.Context) (questions []models.Question, err error) {
	defer metrics.TrackStoreQuery("list_questions", time.Now(), &err)

	rows, err := c.db.QueryContext(ctx, `SELECT id, question FROM questions ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Question); err != nil {
			return nil, fmt.Errorf("failed to scan question row: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read question rows: %w", err)
	}

	return questions, nil
}

// GetQuestion returns exactly one question. storage.ErrNotFound is returned
// for zero rows and storage.ErrAmbiguousResult for more than one; the latter
// should be impossible given primary key uniqueness.
func (c *Client) GetQuestion(ctx context.Context, questionID int) (question *models.Question, err error) {
	defer metrics.TrackStoreQuery("get_question", time.Now(), &err)

	rows, err := c.db.QueryContext(ctx, `SELECT id, question FROM questions WHERE id = $1`, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	defer rows.Close()

	var matches []models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Question); err != nil {
			return nil, fmt.Errorf("failed to scan question row: %w", err)
		}
		matches = append(matches, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read question rows: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("question %d: %w", questionID, storage.ErrNotFound)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("question %d: %w", questionID, storage.ErrAmbiguousResult)
	}
}

// GetAnswersForQuestion returns every country's answers to one question,
// ordered by country ascending.
func (c *Client) GetAnswersForQuestion(ctx context.Context, questionID int) (answers []models.Answer, err error) {
	defer metrics.TrackStoreQuery("get_answers_for_question", time.Now(), &err)

	query := `
		SELECT id, country, question, summary, detailed_response, timestamp
		FROM questions_answers
		WHERE question = $1
		ORDER BY country ASC`

	rows, err := c.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers for question: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a models.Answer
		var summary, detailed sql.NullString
		var ts sql.NullTime

		if err := rows.Scan(&a.ID, &a.Country, &a.Question, &summary, &detailed, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan answer row: %w", err)
		}
		a.Summary = nullableString(summary)
		a.DetailedResponse = nullableString(detailed)
		a.Timestamp = nullableTime(ts)
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read answer rows: %w", err)
	}

	return answers, nil
}

// SearchDocuments finds documents whose title or extracted text contains the
// term, case-insensitively. An empty or whitespace-only term returns an
// empty result without touching the database.
func (c *Client) SearchDocuments(ctx context.Context, term string) (docs []models.Document, err error) {
	if strings.TrimSpace(term) == "" {
		return nil, nil
	}

	defer metrics.TrackStoreQuery("search_documents", time.Now(), &err)

	query := documentColumns + `
		FROM documents
		WHERE title ILIKE $1 OR extracted_text ILIKE $1
		LIMIT $2`

	rows, err := c.db.QueryContext(ctx, query, likePattern(term), searchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// SearchAnswers finds answers whose summary or detailed response contains
// the term, joined with their question text. Same empty-term rule as
// SearchDocuments.
func (c *Client) SearchAnswers(ctx context.Context, term string) (answers []models.AnswerWithQuestion, err error) {
	if strings.TrimSpace(term) == "" {
		return nil, nil
	}

	defer metrics.TrackStoreQuery("search_answers", time.Now(), &err)

	query := `
		SELECT a.id, a.country, a.question, a.summary, a.detailed_response, a.timestamp, q.question
		FROM questions_answers a
		LEFT JOIN questions q ON q.id = a.question
		WHERE a.summary ILIKE $1 OR a.detailed_response ILIKE $1
		LIMIT $2`

	rows, err := c.db.QueryContext(ctx, query, likePattern(term), searchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search answers: %w", err)
	}
	defer rows.Close()

	return scanAnswersWithQuestion(rows)
}

// CountDocuments returns the total number of document rows.
func (c *Client) CountDocuments(ctx context.Context) (count int, err error) {
	defer metrics.TrackStoreQuery("count_documents", time.Now(), &err)

	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// CountQuestions returns the total number of question rows.
func (c *Client) CountQuestions(ctx context.Context) (count int, err error) {
	defer metrics.TrackStoreQuery("count_questions", time.Now(), &err)

	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

const documentColumns = `
		SELECT doc_id, country, title, url, extracted_text, language, file_size, submission_date, processed_at`

func scanDocuments(rows *sql.Rows) ([]models.Document, error) {
	var docs []models.Document
	for rows.Next() {
		var d models.Document
		var country, title, url, text, language sql.NullString
		var fileSize sql.NullInt64
		var submitted, processed sql.NullTime

		err := rows.Scan(&d.DocID, &country, &title, &url, &text, &language, &fileSize, &submitted, &processed)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}

		d.Country = nullableString(country)
		d.Title = nullableString(title)
		d.URL = nullableString(url)
		d.ExtractedText = nullableString(text)
		d.Language = nullableString(language)
		d.FileSize = nullableInt64(fileSize)
		d.SubmissionDate = nullableTime(submitted)
		d.ProcessedAt = nullableTime(processed)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read document rows: %w", err)
	}
	return docs, nil
}

func scanAnswersWithQuestion(rows *sql.Rows) ([]models.AnswerWithQuestion, error) {
	var answers []models.AnswerWithQuestion
	for rows.Next() {
		var a models.AnswerWithQuestion
		var summary, detailed, questionText sql.NullString
		var ts sql.NullTime

		err := rows.Scan(&a.ID, &a.Country, &a.Question, &summary, &detailed, &ts, &questionText)
		if err != nil {
			return nil, fmt.Errorf("failed to scan answer row: %w", err)
		}

		a.Summary = nullableString(summary)
		a.DetailedResponse = nullableString(detailed)
		a.Timestamp = nullableTime(ts)
		a.QuestionText = nullableString(questionText)
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read answer rows: %w", err)
	}
	return answers, nil
}

// likePattern escapes LIKE metacharacters in the user term so they match
// literally, then wraps it for substring containment.
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullableInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func nullableTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	return &v.Time
}
