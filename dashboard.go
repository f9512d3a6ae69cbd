package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/contaslab/contas_backend/models"
	"github.com/contaslab/contas_backend/workflow"
)

type dashboardQuery struct {
	Year           int `form:"year"`
	Month          int `form:"month"`
	PaidPage       int `form:"paid_page"`
	PaidPerPage    int `form:"paid_per_page"`
	PendingPage    int `form:"pending_page"`
	PendingPerPage int `form:"pending_per_page"`
}

func dashboardHandler(c *gin.Context) {
	if _, ok := userIdFrom(c); !ok {
		return
	}
	var query dashboardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}
	dashboard, err := workflow.GetDashboard(
		c.Request.Context(),
		query.Year,
		query.Month,
		models.PageParams{Page: query.PaidPage, PerPage: query.PaidPerPage},
		models.PageParams{Page: query.PendingPage, PerPage: query.PendingPerPage},
	)
	if err != nil {
		writeModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
