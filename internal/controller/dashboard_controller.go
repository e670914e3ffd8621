package controller

import (
	"qcm_edu_backend/internal/model"
	"qcm_edu_backend/internal/service"
	"qcm_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboard *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboard}
}

// TeacherDashboard godoc
// @Summary Teacher home view
// @Description The teacher's own content plus every student result on it
// @Tags teacher
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /teacher/dashboard [get]
func (ctl *DashboardController) TeacherDashboard(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	view, err := ctl.DashboardService.ForTeacher(claims.UserID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, view)
}

// Dashboard godoc
// @Summary Role-aware home view
// @Description Students get the catalogue with their latest score per quiz; teachers are redirected to their own view
// @Tags dashboard
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /dashboard [get]
func (ctl *DashboardController) Dashboard(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims.Role == model.Teacher {
		ctl.TeacherDashboard(c)
		return
	}

	view, err := ctl.DashboardService.ForStudent(claims.UserID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, view)
}
