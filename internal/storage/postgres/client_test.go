package postgres

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndc-explorer/backend/internal/storage"
)

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%adaptation%", likePattern("adaptation"))
	assert.Equal(t, `%100\%%`, likePattern("100%"), "percent matches literally")
	assert.Equal(t, `%net\_zero%`, likePattern("net_zero"), "underscore matches literally")
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}

func TestNullableHelpers(t *testing.T) {
	assert.Nil(t, nullableString(sql.NullString{}))
	assert.Equal(t, "Brazil", *nullableString(sql.NullString{String: "Brazil", Valid: true}))

	assert.Nil(t, nullableInt64(sql.NullInt64{}))
	assert.Equal(t, int64(42), *nullableInt64(sql.NullInt64{Int64: 42, Valid: true}))

	assert.Nil(t, nullableTime(sql.NullTime{}))
	ts := time.Date(2023, 11, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, ts, *nullableTime(sql.NullTime{Time: ts, Valid: true}))
}

// setupTestClient connects to the database named by TEST_DATABASE_URL and
// seeds the catalog tables. Tests are skipped when the variable is unset.
func setupTestClient(t *testing.T) *Client {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	client, err := NewClient(dsn, 4, 2)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx))

	statements := []string{
		`CREATE TABLE IF NOT EXISTS countries (id TEXT PRIMARY KEY)`,
		`CREATE TABLE IF NOT EXISTS documents (
			doc_id TEXT PRIMARY KEY,
			country TEXT REFERENCES countries(id),
			title TEXT, url TEXT, extracted_text TEXT, language TEXT,
			file_size BIGINT, submission_date DATE, processed_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS questions (id INTEGER PRIMARY KEY, question TEXT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS questions_answers (
			id TEXT PRIMARY KEY,
			country TEXT NOT NULL REFERENCES countries(id),
			question INTEGER NOT NULL REFERENCES questions(id),
			summary TEXT, detailed_response TEXT, timestamp TIMESTAMPTZ
		)`,
		`TRUNCATE questions_answers, documents, questions, countries`,
		`INSERT INTO countries (id) VALUES ('Brazil'), ('Chad')`,
		`INSERT INTO documents (doc_id, country, title, extracted_text, submission_date) VALUES
			('d1', 'Brazil', 'First NDC', 'emission targets and adaptation', '2020-12-01'),
			('d2', 'Brazil', 'Updated NDC', 'renewable energy goals', '2023-11-02'),
			('d3', 'Brazil', 'Annex', 'methodology baseline', NULL),
			('d4', NULL, 'Unattributed', 'orphan document', '2021-01-01')`,
		`INSERT INTO questions (id, question) VALUES (1, 'What are the emission targets?')`,
		`INSERT INTO questions_answers (id, country, question, summary, timestamp) VALUES
			('a1', 'Brazil', 1, 'Net zero by 2050', '2024-01-01T00:00:00Z'),
			('a2', 'Brazil', 1, 'Revised: net zero by 2045', '2024-06-01T00:00:00Z'),
			('a3', 'Chad', 1, 'Conditional targets', '2024-02-01T00:00:00Z')`,
	}
	for _, stmt := range statements {
		_, err := client.db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}

	return client
}

func TestGetCountryDocumentsOrdering(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	docs, err := client.GetCountryDocuments(ctx, "Brazil")
	require.NoError(t, err)
	require.Len(t, docs, 3)

	for _, doc := range docs {
		require.NotNil(t, doc.Country)
		assert.Equal(t, "Brazil", *doc.Country)
	}

	// Newest submission first, NULL dates last.
	assert.Equal(t, "d2", docs[0].DocID)
	assert.Equal(t, "d1", docs[1].DocID)
	assert.Equal(t, "d3", docs[2].DocID)
	assert.Nil(t, docs[2].SubmissionDate)
}

func TestListCountryDocumentFKsExcludesNull(t *testing.T) {
	client := setupTestClient(t)

	fks, err := client.ListCountryDocumentFKs(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Brazil", "Brazil", "Brazil"}, fks)
}

func TestListAnswerCountryFKsKeepsDuplicatePairs(t *testing.T) {
	client := setupTestClient(t)

	fks, err := client.ListAnswerCountryFKs(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Brazil", "Brazil", "Chad"}, fks)
}

func TestGetQuestionNotFound(t *testing.T) {
	client := setupTestClient(t)

	_, err := client.GetQuestion(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestSearchDocumentsCaseInsensitive(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	docs, err := client.SearchDocuments(ctx, "ADAPTATION")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "d1", docs[0].DocID)

	none, err := client.SearchDocuments(ctx, "no such phrase anywhere")
	require.NoError(t, err)
	assert.Empty(t, none, "zero matches is an empty result, not an error")
}

func TestSearchDocumentsEmptyTermSkipsQuery(t *testing.T) {
	client := setupTestClient(t)

	docs, err := client.SearchDocuments(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, docs)
}

func TestSearchAnswersJoinsQuestionText(t *testing.T) {
	client := setupTestClient(t)

	answers, err := client.SearchAnswers(context.Background(), "net zero")
	require.NoError(t, err)
	require.Len(t, answers, 2)
	for _, a := range answers {
		require.NotNil(t, a.QuestionText)
		assert.Equal(t, "What are the emission targets?", *a.QuestionText)
	}
}

func TestGetCountryAnswersOrderedByTimestampDesc(t *testing.T) {
	client := setupTestClient(t)

	answers, err := client.GetCountryAnswers(context.Background(), "Brazil")
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, "a2", answers[0].ID)
	assert.Equal(t, "a1", answers[1].ID)
}
