package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/contaslab/contas_backend/models"
	"github.com/contaslab/contas_backend/workflow"
)

type transactionListQuery struct {
	AccountId    int    `form:"account_id"`
	CardId       int    `form:"card_id"`
	CategoryId   int    `form:"category_id"`
	CategoryType string `form:"category_type"`
	DueDateStart string `form:"due_date_start"`
	DueDateEnd   string `form:"due_date_end"`
	PaidAtStart  string `form:"paid_at_start"`
	PaidAtEnd    string `form:"paid_at_end"`
	SortBy       string `form:"sort_by"`
	SortOrder    string `form:"sort_order"`
	Page         int    `form:"page"`
	PerPage      int    `form:"per_page"`
}

func parseDateParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func listTransactionsHandler(c *gin.Context) {
	userId, ok := userIdFrom(c)
	if !ok {
		return
	}
	var query transactionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	filter := models.TransactionFilter{
		AccountId:    query.AccountId,
		CardId:       query.CardId,
		CategoryId:   query.CategoryId,
		CategoryType: models.CategoryType(query.CategoryType),
	}
	var err error
	if filter.DueDayStart, err = parseDateParam(query.DueDateStart); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date_start"})
		return
	}
	if filter.DueDayEnd, err = parseDateParam(query.DueDateEnd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date_end"})
		return
	}
	if filter.PaidAtStart, err = parseDateParam(query.PaidAtStart); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid paid_at_start"})
		return
	}
	if filter.PaidAtEnd, err = parseDateParam(query.PaidAtEnd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid paid_at_end"})
		return
	}

	page := models.PageParams{Page: query.Page, PerPage: query.PerPage}
	results, total, err := models.ListTransactions(c.Request.Context(), userId, filter, query.SortBy, query.SortOrder, page)
	if err != nil {
		writeModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": results, "total": total})
}

func getTransactionHandler(c *gin.Context) {
	getModel[models.Transaction](c, "Account", "Category", "Card")
}

func createTransactionHandler(c *gin.Context) {
	if _, ok := userIdFrom(c); !ok {
		return
	}
	var input workflow.TransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	chain, err := workflow.CreateTransactionChain(c.Request.Context(), &input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": chain, "created": len(chain)})
}

func updateTransactionHandler(c *gin.Context) {
	if _, ok := userIdFrom(c); !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input workflow.TransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	updated, err := workflow.UpdateTransactionChain(c.Request.Context(), id, &input)
	if err != nil {
		writeModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func deleteTransactionHandler(c *gin.Context) {
	if _, ok := userIdFrom(c); !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := workflow.DeleteTransactionChain(c.Request.Context(), id); err != nil {
		writeModelError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func markTransactionPaidHandler(c *gin.Context) {
	userId, ok := userIdFrom(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	transaction, err := models.MarkTransactionPaid(c.Request.Context(), userId, id)
	if err != nil {
		writeModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

func uploadTransactionsHandler(c *gin.Context) {
	if _, ok := userIdFrom(c); !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer file.Close()

	created, err := workflow.ImportTransactions(c.Request.Context(), file)
	if err != nil {
		// Rows imported before the failure stay persisted.
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "imported": len(created)})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"imported": len(created), "data": created})
}

func downloadTemplateHandler(c *gin.Context) {
	if _, ok := userIdFrom(c); !ok {
		return
	}
	template, err := workflow.BuildImportTemplate(c.Request.Context())
	if err != nil {
		writeModelError(c, err)
		return
	}
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=template_transacoes.xlsx")
	if err := template.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
