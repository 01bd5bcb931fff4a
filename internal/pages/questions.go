package pages

import (
	"context"
	"sync"
	"time"

	"github.com/ndc-explorer/backend/internal/aggregate"
	"github.com/ndc-explorer/backend/internal/storage/models"
)

type QuestionCard struct {
	ID          int    `json:"id"`
	Question    string `json:"question"`
	AnswerCount int    `json:"answer_count"`
}

type QuestionsView struct {
	Total     int            `json:"total"`
	Questions []QuestionCard `json:"questions"`
}

type QuestionDetailView struct {
	Question models.Question `json:"question"`
	Total    int             `json:"total"`
	Filter   string          `json:"filter,omitempty"`
	Answers  []models.Answer `json:"answers"`
}

// Questions builds the research question list with per-question answer
// counts folded from the answer foreign keys. Each answer row counts once,
// so countries with several answers to the same question contribute each of
// them.
func (s *Service) Questions(ctx context.Context) (view *QuestionsView, err error) {
	defer trackPage("questions", time.Now(), &err)

	var (
		questions   []models.Question
		answerFKs   []models.AnswerFK
		questionErr error
		fkErr       error
		wg          sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		questions, questionErr = s.store.ListQuestions(ctx)
	}()
	go func() {
		defer wg.Done()
		answerFKs, fkErr = s.store.ListAnswerQuestionFKs(ctx)
	}()
	wg.Wait()

	if err := firstError(questionErr, fkErr); err != nil {
		return nil, err
	}

	answerCounts := aggregate.CountBy(answerFKs, func(fk models.AnswerFK) (int, bool) {
		return fk.Question, true
	})

	cards := make([]QuestionCard, 0, len(questions))
	for _, q := range questions {
		cards = append(cards, QuestionCard{
			ID:          q.ID,
			Question:    q.Question,
			AnswerCount: answerCounts[q.ID],
		})
	}

	return &QuestionsView{
		Total:     len(questions),
		Questions: cards,
	}, nil
}

// QuestionDetail fetches one question and its answers across countries. The
// two queries run independently. Total reports the unfiltered answer count;
// the filter narrows over country id and summary.
func (s *Service) QuestionDetail(ctx context.Context, questionID int, filter string) (view *QuestionDetailView, err error) {
	defer trackPage("question_detail", time.Now(), &err)

	var (
		question    *models.Question
		answers     []models.Answer
		questionErr error
		answersErr  error
		wg          sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		question, questionErr = s.store.GetQuestion(ctx, questionID)
	}()
	go func() {
		defer wg.Done()
		answers, answersErr = s.store.GetAnswersForQuestion(ctx, questionID)
	}()
	wg.Wait()

	if err := firstError(questionErr, answersErr); err != nil {
		return nil, err
	}

	filtered := aggregate.FilterBySubstring(answers, filter,
		func(a models.Answer) *string { return &a.Country },
		func(a models.Answer) *string { return a.Summary },
	)
	if filtered == nil {
		filtered = []models.Answer{}
	}

	return &QuestionDetailView{
		Question: *question,
		Total:    len(answers),
		Filter:   filter,
		Answers:  filtered,
	}, nil
}
