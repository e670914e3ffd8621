package controller

import (
	"errors"

	"qcm_edu_backend/internal/service"
	"qcm_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	Content *service.ContentService
}

func NewContentController(content *service.ContentService) *ContentController {
	return &ContentController{Content: content}
}

// ListDocuments godoc
// @Summary List course documents
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /documents [get]
func (ctl *ContentController) ListDocuments(c *gin.Context) {
	docs, err := ctl.Content.ListDocuments()
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, docs)
}

// ListVideos godoc
// @Summary List course videos
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /videos [get]
func (ctl *ContentController) ListVideos(c *gin.Context) {
	videos, err := ctl.Content.ListVideos()
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, videos)
}

func (ctl *ContentController) uploadInput(c *gin.Context) (*service.UploadInput, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		util.BadRequest(c, "file is required")
		return nil, false
	}
	title := c.PostForm("title")
	if title == "" {
		util.BadRequest(c, "title is required")
		return nil, false
	}
	claims := util.GetUserFromContext(c)
	return &service.UploadInput{
		Title:       title,
		Description: c.PostForm("description"),
		File:        file,
		UserID:      claims.UserID,
	}, true
}

// UploadDocument godoc
// @Summary Upload a course document
// @Tags teacher
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param title formData string true "title"
// @Param description formData string false "description"
// @Param file formData file true "document file"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /teacher/documents [post]
func (ctl *ContentController) UploadDocument(c *gin.Context) {
	input, ok := ctl.uploadInput(c)
	if !ok {
		return
	}

	doc, err := ctl.Content.UploadDocument(c.Request.Context(), *input)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	util.Created(c, doc)
}

// UploadVideo godoc
// @Summary Upload a course video
// @Tags teacher
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param title formData string true "title"
// @Param description formData string false "description"
// @Param file formData file true "video file"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /teacher/videos [post]
func (ctl *ContentController) UploadVideo(c *gin.Context) {
	input, ok := ctl.uploadInput(c)
	if !ok {
		return
	}

	video, err := ctl.Content.UploadVideo(c.Request.Context(), *input)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	util.Created(c, video)
}

// GetDocument godoc
// @Summary Get one document
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "document id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /documents/{id} [get]
func (ctl *ContentController) GetDocument(c *gin.Context) {
	doc, err := ctl.Content.GetDocument(util.MustParseUint(c.Param("id")))
	if err != nil {
		util.NotFound(c, util.ErrDocumentNotFound.Error())
		return
	}
	util.Success(c, doc)
}

// GetVideo godoc
// @Summary Get one video
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "video id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /videos/{id} [get]
func (ctl *ContentController) GetVideo(c *gin.Context) {
	video, err := ctl.Content.GetVideo(util.MustParseUint(c.Param("id")))
	if err != nil {
		util.NotFound(c, util.ErrVideoNotFound.Error())
		return
	}
	util.Success(c, video)
}

// DeleteDocument godoc
// @Summary Delete a document and its quiz
// @Tags teacher
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "document id"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /teacher/documents/{id} [delete]
func (ctl *ContentController) DeleteDocument(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	err := ctl.Content.DeleteDocument(c.Request.Context(), util.MustParseUint(c.Param("id")), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrDocumentNotFound):
			util.NotFound(c, err.Error())
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(c)
		default:
			util.LogInternalError(c, err)
		}
		return
	}
	util.Success(c, nil)
}

// DeleteVideo godoc
// @Summary Delete a video and its quiz
// @Tags teacher
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "video id"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /teacher/videos/{id} [delete]
func (ctl *ContentController) DeleteVideo(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	err := ctl.Content.DeleteVideo(c.Request.Context(), util.MustParseUint(c.Param("id")), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrVideoNotFound):
			util.NotFound(c, err.Error())
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(c)
		default:
			util.LogInternalError(c, err)
		}
		return
	}
	util.Success(c, nil)
}
