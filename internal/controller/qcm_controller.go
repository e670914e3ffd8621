package controller

import (
	"context"
	"errors"
	"strconv"
	"time"

	"qcm_edu_backend/internal/config"
	"qcm_edu_backend/internal/service"
	"qcm_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QcmController struct {
	Quizzes *service.QuizService
	Content *service.ContentService
	Config  *config.Config
}

func NewQcmController(quizzes *service.QuizService, content *service.ContentService, cfg *config.Config) *QcmController {
	return &QcmController{Quizzes: quizzes, Content: content, Config: cfg}
}

// GetQcm godoc
// @Summary Get a quiz by id
// @Tags qcm
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "qcm id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /qcms/{id} [get]
func (ctl *QcmController) GetQcm(c *gin.Context) {
	qcm, err := ctl.Quizzes.GetQcm(util.MustParseUint(c.Param("id")))
	if err != nil {
		util.NotFound(c, util.ErrQcmNotFound.Error())
		return
	}
	util.Success(c, qcm)
}

func generateOptions(c *gin.Context) service.GenerateOptions {
	nb, _ := strconv.Atoi(c.Query("nb_questions"))
	return service.GenerateOptions{
		Force:           c.Query("force") == "true" || c.Query("force") == "1",
		NbQuestions:     nb,
		MultipleCorrect: c.Query("multiple_correct") == "true" || c.Query("multiple_correct") == "1",
	}
}

// GenerateDocumentQcm godoc
// @Summary Generate (or reuse) the quiz of a document
// @Description Generates a quiz from the document text via the AI service. Returns the existing quiz unless force=true.
// @Tags teacher
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "document id"
// @Param force query bool false "regenerate even if a quiz exists"
// @Param nb_questions query int false "number of questions"
// @Param multiple_correct query bool false "allow multi-answer questions"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 502 {object} util.Response
// @Router /teacher/documents/{id}/generate-qcm [post]
func (ctl *QcmController) GenerateDocumentQcm(c *gin.Context) {
	doc, err := ctl.Content.GetDocument(util.MustParseUint(c.Param("id")))
	if err != nil {
		util.NotFound(c, util.ErrDocumentNotFound.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(ctl.Config.AI.RequestTimeoutSec)*time.Second)
	defer cancel()

	qcm, err := ctl.Quizzes.EnsureDocumentQuiz(ctx, doc, generateOptions(c))
	if err != nil {
		ctl.generationError(c, err)
		return
	}
	util.Success(c, qcm)
}

// GenerateVideoQcm godoc
// @Summary Generate (or reuse) the quiz of a video
// @Description Transcribes the video and generates a quiz from the transcript. Returns the existing quiz unless force=true.
// @Tags teacher
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "video id"
// @Param force query bool false "regenerate even if a quiz exists"
// @Param nb_questions query int false "number of questions"
// @Param multiple_correct query bool false "allow multi-answer questions"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 502 {object} util.Response
// @Router /teacher/videos/{id}/generate-qcm [post]
func (ctl *QcmController) GenerateVideoQcm(c *gin.Context) {
	video, err := ctl.Content.GetVideo(util.MustParseUint(c.Param("id")))
	if err != nil {
		util.NotFound(c, util.ErrVideoNotFound.Error())
		return
	}

	// Transcription dominates the video path; give it the larger budget.
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(ctl.Config.AI.TranscribeTimeout)*time.Second)
	defer cancel()

	qcm, err := ctl.Quizzes.EnsureVideoQuiz(ctx, video, generateOptions(c))
	if err != nil {
		ctl.generationError(c, err)
		return
	}
	util.Success(c, qcm)
}

func (ctl *QcmController) generationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrFileNotFound):
		util.NotFound(c, err.Error())
	case errors.Is(err, util.ErrEmptyQcm):
		util.Error(c, 502, "the AI service returned no usable questions")
	default:
		util.Error(c, 502, "quiz generation failed")
	}
}
