package pages

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ndc-explorer/backend/internal/metrics"
	"github.com/ndc-explorer/backend/internal/storage/models"
	"github.com/ndc-explorer/backend/pkg/logger"
	"github.com/ndc-explorer/backend/pkg/textutil"
)

const snippetRunes = 300

// DocumentResult is one document card on the search page.
type DocumentResult struct {
	DocID   string  `json:"doc_id"`
	Country *string `json:"country,omitempty"`
	Title   *string `json:"title,omitempty"`
	URL     *string `json:"url,omitempty"`
	Snippet string  `json:"snippet,omitempty"`
}

// AnswerResult is one research answer card on the search page.
type AnswerResult struct {
	ID           string  `json:"id"`
	Country      string  `json:"country"`
	Question     int     `json:"question"`
	QuestionText *string `json:"question_text,omitempty"`
	Summary      *string `json:"summary,omitempty"`
}

type SearchView struct {
	Query        string           `json:"query"`
	Started      bool             `json:"started"`
	TotalResults int              `json:"total_results"`
	Documents    []DocumentResult `json:"documents"`
	Answers      []AnswerResult   `json:"answers"`
}

// Search runs the cross-entity search. A term that trims to empty issues no
// queries at all and reports Started=false, which the caller renders as the
// "start your search" state rather than "no results". Document and answer
// searches run independently; each is capped at 20 rows by the store.
func (s *Service) Search(ctx context.Context, term string) (view *SearchView, err error) {
	defer trackPage("search", time.Now(), &err)

	if strings.TrimSpace(term) == "" {
		return &SearchView{
			Query:     term,
			Started:   false,
			Documents: []DocumentResult{},
			Answers:   []AnswerResult{},
		}, nil
	}

	termHash := textutil.HashTerm(term)
	if s.cache != nil {
		var cached SearchView
		hit, cacheErr := s.cache.GetView(ctx, "search", termHash, &cached)
		if cacheErr != nil {
			logger.Warn("Search cache lookup failed", zap.Error(cacheErr))
		}
		if hit {
			metrics.CacheHits.WithLabelValues("search").Inc()
			return &cached, nil
		}
		metrics.CacheMisses.WithLabelValues("search").Inc()
	}

	searchID := uuid.New().String()
	logger.Info("Search started",
		zap.String("search_id", searchID),
		zap.String("term_hash", termHash),
	)

	var (
		documents  []models.Document
		answers    []models.AnswerWithQuestion
		docErr     error
		answersErr error
		wg         sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		documents, docErr = s.store.SearchDocuments(ctx, term)
	}()
	go func() {
		defer wg.Done()
		answers, answersErr = s.store.SearchAnswers(ctx, term)
	}()
	wg.Wait()

	if err := firstError(docErr, answersErr); err != nil {
		logger.Error("Search failed",
			zap.String("search_id", searchID),
			zap.NamedError("documents_error", docErr),
			zap.NamedError("answers_error", answersErr),
		)
		return nil, err
	}

	docResults := make([]DocumentResult, 0, len(documents))
	for _, doc := range documents {
		result := DocumentResult{
			DocID:   doc.DocID,
			Country: doc.Country,
			Title:   doc.Title,
			URL:     doc.URL,
		}
		if doc.ExtractedText != nil {
			result.Snippet = textutil.Snippet(*doc.ExtractedText, snippetRunes)
		}
		docResults = append(docResults, result)
	}

	answerResults := make([]AnswerResult, 0, len(answers))
	for _, answer := range answers {
		answerResults = append(answerResults, AnswerResult{
			ID:           answer.ID,
			Country:      answer.Country,
			Question:     answer.Question,
			QuestionText: answer.QuestionText,
			Summary:      answer.Summary,
		})
	}

	metrics.SearchResults.WithLabelValues("documents").Observe(float64(len(docResults)))
	metrics.SearchResults.WithLabelValues("answers").Observe(float64(len(answerResults)))

	view = &SearchView{
		Query:        term,
		Started:      true,
		TotalResults: len(docResults) + len(answerResults),
		Documents:    docResults,
		Answers:      answerResults,
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetView(ctx, "search", termHash, view); cacheErr != nil {
			logger.Warn("Search cache store failed", zap.Error(cacheErr))
		}
	}

	logger.Info("Search completed",
		zap.String("search_id", searchID),
		zap.Int("documents", len(docResults)),
		zap.Int("answers", len(answerResults)),
	)

	return view, nil
}
