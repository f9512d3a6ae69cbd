package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/contaslab/contas_backend/models"
	"github.com/contaslab/contas_backend/utils"
)

func writeModelError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func listModels[T any](c *gin.Context, associations ...string) {
	userId, ok := userIdFrom(c)
	if !ok {
		return
	}
	var page models.PageParams
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}
	results, err := utils.FetchAllModels[T](c.Request.Context(), userId, associations...)
	if err != nil {
		writeModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  models.PaginateSlice(results, page),
		"total": len(results),
	})
}

func getModel[T any](c *gin.Context, associations ...string) {
	userId, ok := userIdFrom(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	result, err := utils.FetchModel[T](c.Request.Context(), userId, id, associations...)
	if err != nil {
		writeModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// --- accounts ---

func listAccountsHandler(c *gin.Context) { listModels[models.Account](c) }
func getAccountHandler(c *gin.Context)   { getModel[models.Account](c) }

func createAccountHandler(c *gin.Context) {
	userId, ok := userIdFrom(c)
	if !ok {
		return
	}
	var input models.NewAccount
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	account, err := models.CreateAccount(c.Request.Context(), userId, &input)
	if err != nil {
		writeModelError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func updateAccountHandler(c *gin.Context) {
	userId, ok := userIdFrom(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewAccount
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	account, err := models.UpdateAccount(c.Request.Context(), userId, id, &input)
	if err != nil {
		writeModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func deleteAccountHandler(c *gin.Context) {
	userId, ok := userIdFrom(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := models.DeleteAccount(c.Request.Context(), userId, id); err != nil {
		writeModelError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- cards ---

func listCardsHandler(c *gin.Context) { listModels[models.Card](c, "Account") }
func getCardHandler(c *gin.Context)   { getModel[models.Card](c, "Account") }

func createCardHandler(c *gin.Context) {
	userId, ok := userIdFrom(c)
	if !ok {
		return
	}
	var input models.NewCard
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	card, err := models.CreateCard(c.Request.Context(), userId, &input)
	if err != nil {
		writeModelError(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

func updateCardHandler(c *gin.Context) {
	userId, ok := userIdFrom(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewCard
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	card, err := models.UpdateCard(c.Request.Context(), userId, id, &input)
	if err != nil {
		writeModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func deleteCardHandler(c *gin.Context) {
	userId, ok := userIdFrom(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := models.DeleteCard(c.Request.Context(), userId, id); err != nil {
		writeModelError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- categories ---

func listCategoriesHandler(c *gin.Context) { listModels[models.Category](c) }
func getCategoryHandler(c *gin.Context)    { getModel[models.Category](c, "Parent") }

func createCategoryHandler(c *gin.Context) {
	userId, ok := userIdFrom(c)
	if !ok {
		return
	}
	var input models.NewCategory
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	category, err := models.CreateCategory(c.Request.Context(), userId, &input)
	if err != nil {
		writeModelError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func updateCategoryHandler(c *gin.Context) {
	userId, ok := userIdFrom(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewCategory
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	category, err := models.UpdateCategory(c.Request.Context(), userId, id, &input)
	if err != nil {
		writeModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func deleteCategoryHandler(c *gin.Context) {
	userId, ok := userIdFrom(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := models.DeleteCategory(c.Request.Context(), userId, id); err != nil {
		writeModelError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- budgets ---

func listBudgetsHandler(c *gin.Context) { listModels[models.Budget](c, "Category") }
func getBudgetHandler(c *gin.Context)   { getModel[models.Budget](c, "Category") }

func createBudgetHandler(c *gin.Context) {
	userId, ok := userIdFrom(c)
	if !ok {
		return
	}
	var input models.NewBudget
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	budget, err := models.CreateBudget(c.Request.Context(), userId, &input)
	if err != nil {
		writeModelError(c, err)
		return
	}
	c.JSON(http.StatusCreated, budget)
}

func updateBudgetHandler(c *gin.Context) {
	userId, ok := userIdFrom(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewBudget
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	budget, err := models.UpdateBudget(c.Request.Context(), userId, id, &input)
	if err != nil {
		writeModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, budget)
}

func deleteBudgetHandler(c *gin.Context) {
	userId, ok := userIdFrom(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := models.DeleteBudget(c.Request.Context(), userId, id); err != nil {
		writeModelError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
