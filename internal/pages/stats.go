package pages

import (
	"context"
	"sync"
	"time"
)

// StatsView backs the landing page figures.
type StatsView struct {
	Countries int `json:"countries"`
	Documents int `json:"documents"`
	Questions int `json:"questions"`
}

// Stats counts the catalog's entities for the landing page. The three
// queries run independently and are recomputed on every request.
func (s *Service) Stats(ctx context.Context) (view *StatsView, err error) {
	defer trackPage("stats", time.Now(), &err)

	var (
		countryCount  int
		documentCount int
		questionCount int
		countryErr    error
		documentErr   error
		questionErr   error
		wg            sync.WaitGroup
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		countries, listErr := s.store.ListCountries(ctx)
		countryCount, countryErr = len(countries), listErr
	}()
	go func() {
		defer wg.Done()
		documentCount, documentErr = s.store.CountDocuments(ctx)
	}()
	go func() {
		defer wg.Done()
		questionCount, questionErr = s.store.CountQuestions(ctx)
	}()
	wg.Wait()

	if err := firstError(countryErr, documentErr, questionErr); err != nil {
		return nil, err
	}

	return &StatsView{
		Countries: countryCount,
		Documents: documentCount,
		Questions: questionCount,
	}, nil
}
