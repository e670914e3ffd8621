package controller

import (
	"errors"
	"net/http"

	"qcm_edu_backend/internal/model"
	"qcm_edu_backend/internal/service"
	"qcm_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	Attempts *service.AttemptService
}

func NewAttemptController(attempts *service.AttemptService) *AttemptController {
	return &AttemptController{Attempts: attempts}
}

// attemptView is what the client sees of an attempt: the answers stay on the
// server until the question has been validated.
type attemptView struct {
	ID          string         `json:"id"`
	QcmID       uint           `json:"qcmId"`
	Step        string         `json:"step"`
	Index       int            `json:"index"`
	Total       int            `json:"total"`
	Question    *questionView  `json:"question,omitempty"`
	Selection   []string       `json:"selection"`
	LastCorrect *bool          `json:"lastCorrect,omitempty"`
	Answer      []string       `json:"answer,omitempty"`
	Summary     *model.Summary `json:"summary,omitempty"`
}

type questionView struct {
	Text     string   `json:"question"`
	Options  []string `json:"options"`
	Multiple bool     `json:"multiple"`
}

func (ctl *AttemptController) view(attempt *model.Attempt) attemptView {
	v := attemptView{
		ID:        attempt.ID,
		QcmID:     attempt.QcmID,
		Step:      string(attempt.Step),
		Index:     attempt.Index,
		Total:     len(attempt.Questions),
		Selection: attempt.Selection,
	}
	if v.Selection == nil {
		v.Selection = []string{}
	}

	if q := attempt.Current(); q != nil {
		v.Question = &questionView{
			Text:     q.Text,
			Options:  q.Options,
			Multiple: q.Answer.Multiple(),
		}
	}

	switch attempt.Step {
	case model.StepFeedback:
		correct := attempt.LastCorrect
		v.LastCorrect = &correct
		if q := attempt.Current(); q != nil {
			v.Answer = q.Answer.Values()
		}
	case model.StepFinished:
		if summary, err := ctl.Attempts.Summary(attempt); err == nil {
			v.Summary = summary
		}
	}

	return v
}

// Start godoc
// @Summary Start a quiz attempt
// @Tags attempt
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "qcm id"
// @Success 201 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /qcms/{id}/attempts [post]
func (ctl *AttemptController) Start(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	attempt, err := ctl.Attempts.Start(c.Request.Context(), util.MustParseUint(c.Param("id")), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQcmNotFound):
			util.NotFound(c, err.Error())
		case errors.Is(err, util.ErrEmptyQcm):
			util.Error(c, http.StatusUnprocessableEntity, err.Error())
		default:
			util.LogInternalError(c, err)
		}
		return
	}
	util.Created(c, ctl.view(attempt))
}

// Get godoc
// @Summary Get the current state of an attempt
// @Tags attempt
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "attempt id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /attempts/{id} [get]
func (ctl *AttemptController) Get(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	attempt, err := ctl.Attempts.Get(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		util.NotFound(c, util.ErrAttemptNotFound.Error())
		return
	}
	util.Success(c, ctl.view(attempt))
}

type selectRequest struct {
	Option string `json:"option" binding:"required"`
}

// Select godoc
// @Summary Select or toggle an option on the current question
// @Tags attempt
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "attempt id"
// @Param selection body selectRequest true "option text"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /attempts/{id}/select [post]
func (ctl *AttemptController) Select(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	claims := util.GetUserFromContext(c)
	attempt, err := ctl.Attempts.Select(c.Request.Context(), c.Param("id"), claims.UserID, req.Option)
	if err != nil {
		ctl.stateError(c, err)
		return
	}
	util.Success(c, ctl.view(attempt))
}

// Validate godoc
// @Summary Lock in the selection and reveal the correction
// @Tags attempt
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "attempt id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /attempts/{id}/validate [post]
func (ctl *AttemptController) Validate(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	attempt, err := ctl.Attempts.Validate(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		ctl.stateError(c, err)
		return
	}
	util.Success(c, ctl.view(attempt))
}

// Next godoc
// @Summary Move on to the next question, or finish the attempt
// @Tags attempt
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "attempt id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /attempts/{id}/next [post]
func (ctl *AttemptController) Next(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	attempt, err := ctl.Attempts.Next(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		ctl.stateError(c, err)
		return
	}
	util.Success(c, ctl.view(attempt))
}

func (ctl *AttemptController) stateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrAttemptNotFound):
		util.NotFound(c, err.Error())
	case errors.Is(err, util.ErrAttemptFinished),
		errors.Is(err, util.ErrEmptySelection),
		errors.Is(err, util.ErrUnknownOption),
		errors.Is(err, util.ErrNotInFeedback),
		errors.Is(err, util.ErrAlreadyValidated):
		util.Error(c, http.StatusUnprocessableEntity, err.Error())
	default:
		util.LogInternalError(c, err)
	}
}
