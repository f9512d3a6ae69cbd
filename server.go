package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/contaslab/contas_backend/config"
	"github.com/contaslab/contas_backend/middlewares"
	"github.com/contaslab/contas_backend/models"
)

const defaultPort = "8080"

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func buildCorsConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			// Deny all when not configured in production.
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true
	return corsConfig
}

func registerRoutes(r *gin.Engine) {
	r.POST("/auth/register", registerHandler)
	r.POST("/auth/login", loginHandler)

	api := r.Group("/", middlewares.AuthMiddleware())

	api.GET("/accounts", listAccountsHandler)
	api.GET("/accounts/:id", getAccountHandler)
	api.POST("/accounts", createAccountHandler)
	api.PUT("/accounts/:id", updateAccountHandler)
	api.DELETE("/accounts/:id", deleteAccountHandler)

	api.GET("/cards", listCardsHandler)
	api.GET("/cards/:id", getCardHandler)
	api.POST("/cards", createCardHandler)
	api.PUT("/cards/:id", updateCardHandler)
	api.DELETE("/cards/:id", deleteCardHandler)

	api.GET("/categories", listCategoriesHandler)
	api.GET("/categories/:id", getCategoryHandler)
	api.POST("/categories", createCategoryHandler)
	api.PUT("/categories/:id", updateCategoryHandler)
	api.DELETE("/categories/:id", deleteCategoryHandler)

	api.GET("/budgets", listBudgetsHandler)
	api.GET("/budgets/:id", getBudgetHandler)
	api.POST("/budgets", createBudgetHandler)
	api.PUT("/budgets/:id", updateBudgetHandler)
	api.DELETE("/budgets/:id", deleteBudgetHandler)

	api.GET("/transactions", listTransactionsHandler)
	api.GET("/transactions/download-template", downloadTemplateHandler)
	api.GET("/transactions/:id", getTransactionHandler)
	api.POST("/transactions", createTransactionHandler)
	api.PUT("/transactions/:id", updateTransactionHandler)
	api.DELETE("/transactions/:id", deleteTransactionHandler)
	api.POST("/transactions/upload", uploadTransactionsHandler)
	api.POST("/transactions/:id/mark_paid", markTransactionPaidHandler)

	api.GET("/dashboard", dashboardHandler)
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	r := gin.New()
	r.Use(middlewares.CorrelationMiddleware())
	r.Use(middlewares.RequestLogger(logger))
	r.Use(gin.Recovery())
	r.Use(cors.New(buildCorsConfig()))

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	// Everything but the health probe waits for the database.
	r.Use(func(c *gin.Context) {
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	registerRoutes(r)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect after the port is open; until then the gate above answers 503.
	config.ConnectDatabaseWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()

	// AutoMigrate can run DDL that blocks tables; allow running it as a
	// separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port)
	log.Println("Server started successfully")

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}
}
