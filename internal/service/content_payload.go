package service

import (
	"encoding/json"
	"strings"

	"lms_backend/internal/model"
	"lms_backend/internal/util"
)

// QuestionReq is the authoring shape of a single quiz question.
type QuestionReq struct {
	Text          string          `json:"text" binding:"required"`
	Kind          string          `json:"kind" binding:"required"`
	CorrectAnswer string          `json:"correctAnswer" binding:"required"`
	Options       json.RawMessage `json:"options"`
	Order         int             `json:"order"`
}

// ContentItemReq is the authoring shape of a content item. Exactly one of
// the payload fields must match Kind.
type ContentItemReq struct {
	Title     string        `json:"title" binding:"required"`
	Kind      string        `json:"kind" binding:"required"`
	Text      string        `json:"text,omitempty"`
	VideoURL  string        `json:"videoUrl,omitempty"`
	FilePath  string        `json:"filePath,omitempty"`
	Questions []QuestionReq `json:"questions,omitempty"`
}

// ContentPayload is the validated, tagged form of a content item body. The
// core only ever sees this shape; raw request maps stop here.
type ContentPayload struct {
	Kind      model.ContentKind
	Body      string // text body, video URL or stored file path
	Questions []model.QuizQuestion
}

// ParseContentPayload validates req into a tagged payload. Validation
// failures are rejected before anything is written.
func ParseContentPayload(req ContentItemReq) (*ContentPayload, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, util.NewValidationError("title is required")
	}

	switch model.ContentKind(req.Kind) {
	case model.ContentText:
		if strings.TrimSpace(req.Text) == "" {
			return nil, util.NewValidationError("text content requires a body")
		}
		return &ContentPayload{Kind: model.ContentText, Body: req.Text}, nil

	case model.ContentVideo:
		if strings.TrimSpace(req.VideoURL) == "" {
			return nil, util.NewValidationError("video content requires a URL")
		}
		return &ContentPayload{Kind: model.ContentVideo, Body: req.VideoURL}, nil

	case model.ContentFile:
		if strings.TrimSpace(req.FilePath) == "" {
			return nil, util.NewValidationError("file content requires an uploaded file")
		}
		return &ContentPayload{Kind: model.ContentFile, Body: req.FilePath}, nil

	case model.ContentQuiz:
		if len(req.Questions) == 0 {
			return nil, util.NewValidationError("quiz content requires at least one question")
		}
		questions := make([]model.QuizQuestion, 0, len(req.Questions))
		for i, qReq := range req.Questions {
			q, err := parseQuestion(qReq, i+1)
			if err != nil {
				return nil, err
			}
			questions = append(questions, *q)
		}
		return &ContentPayload{Kind: model.ContentQuiz, Questions: questions}, nil

	default:
		return nil, util.NewValidationError("unknown content kind: " + req.Kind)
	}
}

func parseQuestion(req QuestionReq, position int) (*model.QuizQuestion, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, util.NewValidationError("question text is required")
	}
	if strings.TrimSpace(req.CorrectAnswer) == "" {
		return nil, util.NewValidationError("question requires a correct answer")
	}

	kind := model.QuestionKind(req.Kind)
	switch kind {
	case model.MultipleChoice:
		options, err := parseOptions(req.Options)
		if err != nil {
			return nil, err
		}
		if len(options) == 0 {
			return nil, util.NewValidationError("multiple choice question requires options")
		}
	case model.OpenEnded:
		if len(req.Options) > 0 && string(req.Options) != "null" {
			return nil, util.NewValidationError("open ended question must not have options")
		}
	default:
		return nil, util.NewValidationError("unknown question kind: " + req.Kind)
	}

	order := req.Order
	if order == 0 {
		order = position
	}

	question := &model.QuizQuestion{
		Text:          req.Text,
		Kind:          kind,
		CorrectAnswer: req.CorrectAnswer,
		Order:         order,
	}
	if kind == model.MultipleChoice {
		question.Options = req.Options
	}
	return question, nil
}

// parseOptions validates the options payload as a JSON array of non-empty
// strings.
func parseOptions(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var options []string
	if err := json.Unmarshal(raw, &options); err != nil {
		return nil, util.NewValidationError("options must be a JSON array of strings")
	}
	for _, opt := range options {
		if strings.TrimSpace(opt) == "" {
			return nil, util.NewValidationError("options must not contain empty strings")
		}
	}
	return options, nil
}
