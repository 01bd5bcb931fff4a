package pages

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ndc-explorer/backend/internal/aggregate"
	"github.com/ndc-explorer/backend/internal/storage/models"
	"github.com/ndc-explorer/backend/pkg/logger"
)

// CountryCard is one country's row on the countries list, with its derived
// per-country counts.
type CountryCard struct {
	ID            string `json:"id"`
	DocumentCount int    `json:"document_count"`
	AnswerCount   int    `json:"answer_count"`
}

type CountriesView struct {
	Total     int           `json:"total"`
	Filter    string        `json:"filter,omitempty"`
	Countries []CountryCard `json:"countries"`
}

type CountryStats struct {
	Documents        int `json:"documents"`
	Responses        int `json:"responses"`
	DatedSubmissions int `json:"dated_submissions"`
}

type CountryDetailView struct {
	CountryID string                      `json:"country_id"`
	Stats     CountryStats                `json:"stats"`
	Documents []models.Document           `json:"documents"`
	Answers   []models.AnswerWithQuestion `json:"answers"`
}

// Countries builds the countries list: every country, its document and
// answer counts folded from the foreign key columns, optionally narrowed by
// a substring filter on the country id. Total reports the unfiltered count.
func (s *Service) Countries(ctx context.Context, filter string) (view *CountriesView, err error) {
	defer trackPage("countries", time.Now(), &err)

	var (
		countries   []models.Country
		docFKs      []string
		answerFKs   []string
		countryErr  error
		docFKErr    error
		answerFKErr error
		wg          sync.WaitGroup
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		countries, countryErr = s.store.ListCountries(ctx)
	}()
	go func() {
		defer wg.Done()
		docFKs, docFKErr = s.store.ListCountryDocumentFKs(ctx)
	}()
	go func() {
		defer wg.Done()
		answerFKs, answerFKErr = s.store.ListAnswerCountryFKs(ctx)
	}()
	wg.Wait()

	if err := firstError(countryErr, docFKErr, answerFKErr); err != nil {
		return nil, err
	}

	docCounts := aggregate.CountBy(docFKs, stringKey)
	answerCounts := aggregate.CountBy(answerFKs, stringKey)

	filtered := aggregate.FilterBySubstring(countries, filter, func(c models.Country) *string {
		return &c.ID
	})

	cards := make([]CountryCard, 0, len(filtered))
	for _, country := range filtered {
		cards = append(cards, CountryCard{
			ID:            country.ID,
			DocumentCount: docCounts[country.ID],
			AnswerCount:   answerCounts[country.ID],
		})
	}

	return &CountriesView{
		Total:     len(countries),
		Filter:    filter,
		Countries: cards,
	}, nil
}

// CountryDetail fetches one country's documents and answers. The two queries
// run independently; neither cancels the other, and the page fails only
// after both complete with at least one error. The filter narrows the
// answers tab over joined question text and summary; documents and stats are
// always unfiltered.
func (s *Service) CountryDetail(ctx context.Context, countryID, filter string) (view *CountryDetailView, err error) {
	defer trackPage("country_detail", time.Now(), &err)

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
		documents, docErr = s.store.GetCountryDocuments(ctx, countryID)
	}()
	go func() {
		defer wg.Done()
		answers, answersErr = s.store.GetCountryAnswers(ctx, countryID)
	}()
	wg.Wait()

	if err := firstError(docErr, answersErr); err != nil {
		logger.Error("Country detail fetch failed",
			zap.String("country", countryID),
			zap.NamedError("documents_error", docErr),
			zap.NamedError("answers_error", answersErr),
		)
		return nil, err
	}

	dated := 0
	for _, doc := range documents {
		if doc.SubmissionDate != nil {
			dated++
		}
	}

	filteredAnswers := aggregate.FilterBySubstring(answers, filter,
		func(a models.AnswerWithQuestion) *string { return a.QuestionText },
		func(a models.AnswerWithQuestion) *string { return a.Summary },
	)

	return &CountryDetailView{
		CountryID: countryID,
		Stats: CountryStats{
			Documents:        len(documents),
			Responses:        len(answers),
			DatedSubmissions: dated,
		},
		Documents: emptyIfNilDocs(documents),
		Answers:   emptyIfNilAnswers(filteredAnswers),
	}, nil
}

func stringKey(s string) (string, bool) {
	return s, s != ""
}

// firstError returns the first non-nil error, after all composed fetches
// have completed.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func emptyIfNilDocs(docs []models.Document) []models.Document {
	if docs == nil {
		return []models.Document{}
	}
	return docs
}

func emptyIfNilAnswers(answers []models.AnswerWithQuestion) []models.AnswerWithQuestion {
	if answers == nil {
		return []models.AnswerWithQuestion{}
	}
	return answers
}
