package controller

import (
	"net/http"
	"strconv"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AdminController exposes user management and cross-instructor course
// administration.
type AdminController struct {
	UserService   *service.UserService
	CourseService *service.CourseService
}

func NewAdminController(userService *service.UserService, courseService *service.CourseService) *AdminController {
	return &AdminController{UserService: userService, CourseService: courseService}
}

// @Summary Create a user with an explicit role
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateUserReq true "user details"
// @Success 201 {object} util.Response
// @Router /admin/users [post]
func (c *AdminController) CreateUser(ctx *gin.Context) {
	var req service.CreateUserReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.CreateUser(req)
	if err != nil {
		if err == util.ErrEmailRegistered {
			util.Error(ctx, http.StatusConflict, err.Error())
			return
		}
		util.HandleServiceError(ctx, err)
		return
	}

	util.Created(ctx, user)
}

// @Summary List users
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Param role query string false "filter by role"
// @Success 200 {object} util.Response
// @Router /admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	role := ctx.Query("role")

	users, total, err := c.UserService.ListUsers(page, limit, role)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: users, Total: total, Page: page, Limit: limit})
}

// @Summary Update a user's role or disabled flag
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "user id"
// @Param body body service.UpdateUserReq true "changes"
// @Success 200 {object} util.Response
// @Router /admin/users/{id} [patch]
func (c *AdminController) UpdateUser(ctx *gin.Context) {
	userID := util.MustParseUint(ctx.Param("id"))

	var req service.UpdateUserReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateUser(userID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

// @Summary List all courses
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /admin/courses [get]
func (c *AdminController) ListCourses(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	courses, total, err := c.CourseService.ListAll(page, limit)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: courses, Total: total, Page: page, Limit: limit})
}

// @Summary Delete any course
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /admin/courses/{id} [delete]
func (c *AdminController) DeleteCourse(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("id"))

	if err := c.CourseService.DeleteCourse(user.UserID, true, courseID); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": courseID})
}
