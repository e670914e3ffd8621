package controller

import (
	"qcm_edu_backend/internal/model"
	"qcm_edu_backend/internal/repository"
	"qcm_edu_backend/internal/service"
	"qcm_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ResultController struct {
	Results *repository.QcmResultRepository
	Quizzes *service.QuizService
}

func NewResultController(results *repository.QcmResultRepository, quizzes *service.QuizService) *ResultController {
	return &ResultController{Results: results, Quizzes: quizzes}
}

// List godoc
// @Summary List the caller's quiz results
// @Tags results
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /qcm_results [get]
func (ctl *ResultController) List(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	results, err := ctl.Results.FindByUser(claims.UserID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, results)
}

type createResultRequest struct {
	QcmID    uint `json:"qcmId" binding:"required"`
	Score    int  `json:"score" binding:"min=0"`
	MaxScore int  `json:"maxScore" binding:"required,min=1"`
}

// Create godoc
// @Summary Record a quiz result
// @Description Direct result recording for clients that score locally. The attempt flow records results automatically.
// @Tags results
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param result body createResultRequest true "result"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /qcm_results [post]
func (ctl *ResultController) Create(c *gin.Context) {
	var req createResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	if req.Score > req.MaxScore {
		util.BadRequest(c, "score cannot exceed maxScore")
		return
	}
	if _, err := ctl.Quizzes.GetQcm(req.QcmID); err != nil {
		util.NotFound(c, util.ErrQcmNotFound.Error())
		return
	}

	claims := util.GetUserFromContext(c)
	result := &model.QcmResult{
		Score:    req.Score,
		MaxScore: req.MaxScore,
		UserID:   claims.UserID,
		QcmID:    req.QcmID,
	}
	if err := ctl.Results.Create(result); err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Created(c, result)
}
