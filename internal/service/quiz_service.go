package service

import (
	"encoding/json"
	"strconv"
	"strings"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PassThreshold is the score (out of 10) at or above which a quiz counts as
// passed. Presentation-level only; the stored response keeps the raw score.
const PassThreshold = 7.0

type QuizService struct {
	Contents   repository.ContentStore
	Enrollment *EnrollmentService
}

func NewQuizService(contents repository.ContentStore, enrollment *EnrollmentService) *QuizService {
	return &QuizService{Contents: contents, Enrollment: enrollment}
}

// QuizResult is the graded outcome of one submission.
type QuizResult struct {
	Score   float64 `json:"score"`
	Passed  bool    `json:"passed"`
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
}

// SubmitQuiz grades the submitted answers against the quiz's stored
// questions, persists the response and refreshes course progress. Grading,
// response write and progress recompute commit together or not at all.
func (s *QuizService) SubmitQuiz(studentID, itemID uint, answers map[string]string) (*QuizResult, error) {
	item, err := s.Contents.FindByID(itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	if item.Kind != model.ContentQuiz {
		return nil, util.ErrNotQuizContent
	}

	correct := GradeAnswers(item.Questions, answers)
	score := QuizScore(correct, len(item.Questions))

	raw, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}

	if _, err := s.Enrollment.recordCompletion(studentID, itemID, string(raw), &score); err != nil {
		return nil, err
	}

	passed := score >= PassThreshold
	monitoring.QuizSubmissions.WithLabelValues(strconv.FormatBool(passed)).Inc()
	logger.Log.Info("quiz graded",
		zap.Uint("studentId", studentID),
		zap.Uint("contentItemId", itemID),
		zap.Float64("score", score),
		zap.Bool("passed", passed))

	return &QuizResult{
		Score:   score,
		Passed:  passed,
		Correct: correct,
		Total:   len(item.Questions),
	}, nil
}

// GradeAnswers counts the correctly answered questions. Answers are keyed by
// the question's decimal ID; missing keys count as wrong.
func GradeAnswers(questions []model.QuizQuestion, answers map[string]string) int {
	correct := 0
	for _, q := range questions {
		submitted, ok := answers[strconv.FormatUint(uint64(q.ID), 10)]
		if !ok {
			continue
		}
		if AnswerMatches(submitted, q.CorrectAnswer) {
			correct++
		}
	}
	return correct
}

// AnswerMatches compares a submitted answer to the stored correct answer
// using trimmed, case-insensitive equality. This is the only comparison
// strategy: multiple_choice questions carry option lists but are graded as
// a single string like everything else.
func AnswerMatches(submitted, correct string) bool {
	return strings.TrimSpace(strings.ToLower(submitted)) == strings.TrimSpace(strings.ToLower(correct))
}

// QuizScore maps a correct count onto the fixed 0-10 scale. A quiz with no
// questions scores 0.
func QuizScore(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 10
}
