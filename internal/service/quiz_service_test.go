package service

import (
	"strconv"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func question(id uint, answer string) model.QuizQuestion {
	return model.QuizQuestion{
		BaseModel:     model.BaseModel{ID: id},
		Text:          "q",
		Kind:          model.OpenEnded,
		CorrectAnswer: answer,
	}
}

func TestAnswerMatches(t *testing.T) {
	tests := []struct {
		name      string
		submitted string
		correct   string
		want      bool
	}{
		{"exact", "Paris", "Paris", true},
		{"case insensitive", "PARIS", "paris", true},
		{"surrounding whitespace", "  paris \n", "Paris", true},
		{"wrong answer", "London", "Paris", false},
		{"inner whitespace differs", "new york", "newyork", false},
		{"both empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnswerMatches(tt.submitted, tt.correct))
		})
	}
}

func TestGradeAnswers(t *testing.T) {
	questions := []model.QuizQuestion{
		question(1, "Paris"),
		question(2, "4"),
		question(3, "true"),
		question(4, "gorm"),
	}

	t.Run("counts matching answers", func(t *testing.T) {
		correct := GradeAnswers(questions, map[string]string{
			"1": " paris ",
			"2": "4",
			"3": "false",
			"4": "GORM",
		})
		assert.Equal(t, 3, correct)
	})

	t.Run("missing keys count as wrong", func(t *testing.T) {
		correct := GradeAnswers(questions, map[string]string{"1": "Paris"})
		assert.Equal(t, 1, correct)
	})

	t.Run("unknown keys are ignored", func(t *testing.T) {
		correct := GradeAnswers(questions, map[string]string{
			"99": "Paris",
			"2":  "4",
		})
		assert.Equal(t, 1, correct)
	})

	t.Run("empty submission", func(t *testing.T) {
		assert.Equal(t, 0, GradeAnswers(questions, map[string]string{}))
	})
}

func TestQuizScore(t *testing.T) {
	assert.Equal(t, 0.0, QuizScore(0, 0))
	assert.Equal(t, 0.0, QuizScore(0, 4))
	assert.Equal(t, 7.5, QuizScore(3, 4))
	assert.Equal(t, 10.0, QuizScore(4, 4))
	assert.InDelta(t, 3.333, QuizScore(1, 3), 0.001)
}

func TestQuizScoreAgainstPassThreshold(t *testing.T) {
	// 3 of 4 is the smallest passing fraction on a 4-question quiz.
	assert.GreaterOrEqual(t, QuizScore(3, 4), PassThreshold)
	assert.Less(t, QuizScore(2, 4), PassThreshold)
	assert.GreaterOrEqual(t, QuizScore(7, 10), PassThreshold)
	assert.Less(t, QuizScore(6, 10), PassThreshold)
}

func TestSubmitQuizGradesAndRecords(t *testing.T) {
	m := newMemStores()
	course := m.addCourse(1)
	module := m.addModule(course.ID)
	item := m.addItem(module.ID, model.ContentQuiz,
		model.QuizQuestion{Text: "capital of France", Kind: model.OpenEnded, CorrectAnswer: "Paris", Order: 1},
		model.QuizQuestion{Text: "2+2", Kind: model.OpenEnded, CorrectAnswer: "4", Order: 2},
	)
	enrollment := newMemEnrollmentService(m)
	svc := NewQuizService(memContentStore{m}, enrollment)

	_, err := enrollment.Enroll(10, course.ID)
	require.NoError(t, err)

	result, err := svc.SubmitQuiz(10, item.ID, map[string]string{
		strconv.FormatUint(uint64(item.Questions[0].ID), 10): " paris ",
		strconv.FormatUint(uint64(item.Questions[1].ID), 10): "5",
	})
	require.NoError(t, err)
	assert.Equal(t, 5.0, result.Score)
	assert.False(t, result.Passed)
	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 2, result.Total)

	response := m.responses[[2]uint{10, item.ID}]
	require.NotNil(t, response)
	require.NotNil(t, response.Score)
	assert.Equal(t, 5.0, *response.Score)
	assert.True(t, response.Completed)
}

func TestSubmitQuizResubmissionOverwritesScore(t *testing.T) {
	m := newMemStores()
	course := m.addCourse(1)
	module := m.addModule(course.ID)
	item := m.addItem(module.ID, model.ContentQuiz,
		model.QuizQuestion{Text: "capital of France", Kind: model.OpenEnded, CorrectAnswer: "Paris", Order: 1},
	)
	m.addItem(module.ID, model.ContentText)
	enrollment := newMemEnrollmentService(m)
	svc := NewQuizService(memContentStore{m}, enrollment)

	_, err := enrollment.Enroll(10, course.ID)
	require.NoError(t, err)

	key := strconv.FormatUint(uint64(item.Questions[0].ID), 10)

	first, err := svc.SubmitQuiz(10, item.ID, map[string]string{key: "London"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, first.Score)

	second, err := svc.SubmitQuiz(10, item.ID, map[string]string{key: "Paris"})
	require.NoError(t, err)
	assert.Equal(t, 10.0, second.Score)
	assert.True(t, second.Passed)

	// The single response row carries the latest score; progress counts the
	// quiz item once.
	require.Len(t, m.responses, 1)
	response := m.responses[[2]uint{10, item.ID}]
	require.NotNil(t, response.Score)
	assert.Equal(t, 10.0, *response.Score)
	assert.Equal(t, 50.0, m.enrollments[[2]uint{10, course.ID}].Progress)
}

func TestSubmitQuizRejectsNonQuizItems(t *testing.T) {
	m := newMemStores()
	course := m.addCourse(1)
	module := m.addModule(course.ID)
	item := m.addItem(module.ID, model.ContentText)
	enrollment := newMemEnrollmentService(m)
	svc := NewQuizService(memContentStore{m}, enrollment)

	_, err := enrollment.Enroll(10, course.ID)
	require.NoError(t, err)

	_, err = svc.SubmitQuiz(10, item.ID, map[string]string{})
	assert.ErrorIs(t, err, util.ErrNotQuizContent)
}
