package controller

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CourseController exposes the instructor-facing authoring surface:
// courses, modules, content items and media uploads.
type CourseController struct {
	CourseService  *service.CourseService
	StorageService *service.StorageService
}

func NewCourseController(courseService *service.CourseService, storageService *service.StorageService) *CourseController {
	return &CourseController{CourseService: courseService, StorageService: storageService}
}

// CreateContentReq wraps the content body with the probed video duration
// returned by the upload endpoint.
type CreateContentReq struct {
	service.ContentItemReq
	Duration float64 `json:"duration"`
}

// @Summary Create a course
// @Tags instructor
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CourseReq true "course details"
// @Success 201 {object} util.Response
// @Router /instructor/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CourseReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.CreateCourse(user.UserID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Created(ctx, course)
}

// @Summary List own courses
// @Tags instructor
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /instructor/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.CourseService.ListByInstructor(user.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, courses)
}

// @Summary Get an owned course with its full module tree
// @Tags instructor
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /instructor/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("id"))

	course, err := c.CourseService.GetCourseDetail(user.UserID, courseID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// @Summary Update a course
// @Tags instructor
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "course id"
// @Param body body service.CourseReq true "course details"
// @Success 200 {object} util.Response
// @Router /instructor/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("id"))

	var req service.CourseReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.UpdateCourse(user.UserID, courseID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// @Summary Delete a course and all nested data
// @Tags instructor
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /instructor/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("id"))

	if err := c.CourseService.DeleteCourse(user.UserID, false, courseID); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": courseID})
}

// @Summary Add a module to a course
// @Tags instructor
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "course id"
// @Param body body service.ModuleReq true "module details"
// @Success 201 {object} util.Response
// @Router /instructor/courses/{id}/modules [post]
func (c *CourseController) CreateModule(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("id"))

	var req service.ModuleReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	mod, err := c.CourseService.CreateModule(user.UserID, courseID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Created(ctx, mod)
}

// @Summary Update a module
// @Tags instructor
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "module id"
// @Param body body service.ModuleReq true "module details"
// @Success 200 {object} util.Response
// @Router /instructor/modules/{id} [put]
func (c *CourseController) UpdateModule(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	moduleID := util.MustParseUint(ctx.Param("id"))

	var req service.ModuleReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	mod, err := c.CourseService.UpdateModule(user.UserID, moduleID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, mod)
}

// @Summary Delete a module and its content
// @Tags instructor
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "module id"
// @Success 200 {object} util.Response
// @Router /instructor/modules/{id} [delete]
func (c *CourseController) DeleteModule(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	moduleID := util.MustParseUint(ctx.Param("id"))

	if err := c.CourseService.DeleteModule(user.UserID, moduleID); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": moduleID})
}

// @Summary Add a content item to a module
// @Tags instructor
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "module id"
// @Param body body controller.CreateContentReq true "content details"
// @Success 201 {object} util.Response
// @Router /instructor/modules/{id}/content [post]
func (c *CourseController) CreateContent(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	moduleID := util.MustParseUint(ctx.Param("id"))

	var req CreateContentReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	item, err := c.CourseService.CreateContent(user.UserID, moduleID, req.ContentItemReq, req.Duration)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Created(ctx, item)
}

// @Summary Update a content item
// @Tags instructor
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "content item id"
// @Param body body service.ContentItemReq true "content details"
// @Success 200 {object} util.Response
// @Router /instructor/content/{id} [put]
func (c *CourseController) UpdateContent(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	itemID := util.MustParseUint(ctx.Param("id"))

	var req service.ContentItemReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	item, err := c.CourseService.UpdateContent(user.UserID, itemID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, item)
}

// @Summary Delete a content item
// @Tags instructor
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "content item id"
// @Success 200 {object} util.Response
// @Router /instructor/content/{id} [delete]
func (c *CourseController) DeleteContent(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	itemID := util.MustParseUint(ctx.Param("id"))

	if err := c.CourseService.DeleteContent(user.UserID, itemID); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": itemID})
}

// @Summary Upload a media file for course content
// @Description Stores the file and returns its path, public URL and, for
// @Description videos, the probed duration in seconds.
// @Tags instructor
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "media file"
// @Success 200 {object} util.Response
// @Router /instructor/uploads [post]
func (c *CourseController) UploadFile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	tmpPath := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(file.Filename))
	if err := ctx.SaveUploadedFile(file, tmpPath); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmpPath)

	f, err := os.Open(tmpPath)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	allowed := []string{util.MimeVideo, util.MimeImage, util.MimePDF, util.MimeOctetStream, "text/"}
	mimeType, err := util.ValidateMimeType(f, allowed)
	f.Close()
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	duration := 0.0
	if util.IsVideo(mimeType) {
		ext := strings.ToLower(filepath.Ext(file.Filename))
		supported := false
		for _, allowed := range util.AllowedVideoExtensions {
			if ext == allowed {
				supported = true
				break
			}
		}
		if !supported {
			util.BadRequest(ctx, "unsupported video format: "+ext)
			return
		}

		info, err := util.GetVideoInfo(tmpPath)
		if err != nil {
			util.Error(ctx, http.StatusUnprocessableEntity, fmt.Sprintf("cannot probe video: %v", err))
			return
		}
		duration = info.Duration
	}

	uploadID := uuid.New().String()
	storedName := uploadID + strings.ToLower(filepath.Ext(file.Filename))
	c.StorageService.SetUploadProgress(ctx.Request.Context(), uploadID, 0)

	path, err := c.StorageService.UploadFile(ctx.Request.Context(), storedName, tmpPath, mimeType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	c.StorageService.SetUploadProgress(ctx.Request.Context(), uploadID, 100)

	util.Success(ctx, gin.H{
		"uploadId": uploadID,
		"path":     path,
		"url":      c.StorageService.GetURL(storedName),
		"mimeType": mimeType,
		"duration": duration,
	})
}

// @Summary Get upload progress
// @Tags instructor
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "upload id"
// @Success 200 {object} util.Response
// @Router /instructor/uploads/{id}/progress [get]
func (c *CourseController) UploadProgress(ctx *gin.Context) {
	uploadID := ctx.Param("id")
	percent := c.StorageService.GetUploadProgress(ctx.Request.Context(), uploadID)
	util.Success(ctx, gin.H{"uploadId": uploadID, "percent": percent})
}
