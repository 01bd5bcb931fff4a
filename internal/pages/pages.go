// Package pages composes store queries, aggregation, and in-memory filtering
// into the view model each route renders. Every page method issues its
// independent queries concurrently, tracks each query's error separately,
// and reports the page as failed if any composed query failed.
package pages

import (
	"context"
	"time"

	"github.com/ndc-explorer/backend/internal/metrics"
	"github.com/ndc-explorer/backend/internal/storage/models"
)

// Store is the read-only data access contract the pages compose. Implemented
// by the postgres client; tests substitute a fake.
type Store interface {
	ListCountries(ctx context.Context) ([]models.Country, error)
	ListCountryDocumentFKs(ctx context.Context) ([]string, error)
	ListAnswerCountryFKs(ctx context.Context) ([]string, error)
	ListAnswerQuestionFKs(ctx context.Context) ([]models.AnswerFK, error)
	GetCountryDocuments(ctx context.Context, countryID string) ([]models.Document, error)
	GetCountryAnswers(ctx context.Context, countryID string) ([]models.AnswerWithQuestion, error)
	ListQuestions(ctx context.Context) ([]models.Question, error)
	GetQuestion(ctx context.Context, questionID int) (*models.Question, error)
	GetAnswersForQuestion(ctx context.Context, questionID int) ([]models.Answer, error)
	SearchDocuments(ctx context.Context, term string) ([]models.Document, error)
	SearchAnswers(ctx context.Context, term string) ([]models.AnswerWithQuestion, error)
	CountDocuments(ctx context.Context) (int, error)
	CountQuestions(ctx context.Context) (int, error)
}

// ViewCache is the explicit, injected view-model cache. A nil cache means
// every request re-fetches; nothing is cached implicitly.
type ViewCache interface {
	GetView(ctx context.Context, operation, params string, view interface{}) (bool, error)
	SetView(ctx context.Context, operation, params string, view interface{}) error
}

type Service struct {
	store Store
	cache ViewCache
}

// NewService builds the page service. cache may be nil to disable view
// caching entirely.
func NewService(store Store, cache ViewCache) *Service {
	return &Service{
		store: store,
		cache: cache,
	}
}

// trackPage records one page build's duration and status. Deferred with a
// named error return, mirroring the store query instrumentation.
func trackPage(page string, start time.Time, err *error) {
	status := "ok"
	if err != nil && *err != nil {
		status = "error"
	}
	metrics.PageTotal.WithLabelValues(page, status).Inc()
	metrics.PageDuration.WithLabelValues(page).Observe(time.Since(start).Seconds())
}
