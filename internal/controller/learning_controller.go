package controller

import (
	"strconv"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// LearningController exposes the student-facing surface: the course
// catalog, enrollment, content consumption, completions and quiz
// submission.
type LearningController struct {
	LearningService   *service.LearningService
	EnrollmentService *service.EnrollmentService
	QuizService       *service.QuizService
}

func NewLearningController(
	learningService *service.LearningService,
	enrollmentService *service.EnrollmentService,
	quizService *service.QuizService,
) *LearningController {
	return &LearningController{
		LearningService:   learningService,
		EnrollmentService: enrollmentService,
		QuizService:       quizService,
	}
}

// SubmitQuizReq carries the student's answers keyed by question id.
type SubmitQuizReq struct {
	Answers map[string]string `json:"answers" binding:"required"`
}

// @Summary List the course catalog with enrollment state
// @Tags student
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /courses [get]
func (c *LearningController) ListCourses(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	courses, total, err := c.LearningService.ListCourses(user.UserID, page, limit)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: courses, Total: total, Page: page, Limit: limit})
}

// @Summary Enroll in a course
// @Tags student
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /courses/{id}/enroll [post]
func (c *LearningController) Enroll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("id"))

	result, err := c.EnrollmentService.Enroll(user.UserID, courseID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	if result.AlreadyEnrolled {
		util.Success(ctx, gin.H{"enrolled": true, "alreadyEnrolled": true})
		return
	}
	util.Created(ctx, gin.H{"enrolled": true, "alreadyEnrolled": false})
}

// @Summary Get the full content tree of an enrolled course
// @Tags student
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /courses/{id} [get]
func (c *LearningController) GetCourseContent(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("id"))

	course, enrollment, responses, err := c.LearningService.GetCourseContent(user.UserID, courseID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"course":    course,
		"progress":  enrollment.Progress,
		"completed": enrollment.Completed,
		"responses": responses,
	})
}

// @Summary Get a single content item
// @Tags student
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "content item id"
// @Success 200 {object} util.Response
// @Router /content/{id} [get]
func (c *LearningController) GetContentItem(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	itemID := util.MustParseUint(ctx.Param("id"))

	item, response, err := c.LearningService.GetContentItem(user.UserID, itemID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"item": item, "response": response})
}

// @Summary Mark a non-quiz content item as completed
// @Tags student
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "content item id"
// @Success 200 {object} util.Response
// @Router /content/{id}/complete [post]
func (c *LearningController) CompleteContent(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	itemID := util.MustParseUint(ctx.Param("id"))

	result, err := c.EnrollmentService.RecordSimpleCompletion(user.UserID, itemID)
	if err != nil {
		if err == util.ErrQuizContent {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"progress":        result.Progress,
		"courseCompleted": result.Completed,
	})
}

// @Summary Submit answers for a quiz content item
// @Tags student
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "content item id"
// @Param body body controller.SubmitQuizReq true "answers keyed by question id"
// @Success 200 {object} util.Response
// @Router /content/{id}/quiz [post]
func (c *LearningController) SubmitQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	itemID := util.MustParseUint(ctx.Param("id"))

	var req SubmitQuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.SubmitQuiz(user.UserID, itemID, req.Answers)
	if err != nil {
		if err == util.ErrNotQuizContent {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
