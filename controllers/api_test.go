package controllers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/calmisko/donation-backend/controllers"
	"github.com/calmisko/donation-backend/models"
	"github.com/calmisko/donation-backend/routes"
	"github.com/calmisko/donation-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	db     *gorm.DB
	api    *controllers.API
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Donor{}, &models.Transaction{}, &models.Session{}); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	registry := services.NewRegistry(db)
	if err := registry.EnsureAnonymousDonor(); err != nil {
		t.Fatalf("seed anonymous donor: %v", err)
	}

	feed := services.NewFeed()
	ledger := services.NewLedger(db, feed)

	api := &controllers.API{
		Registry:        registry,
		Ledger:          ledger,
		Ingestor:        services.NewIngestor(ledger, 140),
		Sessions:        services.NewSessionStore(db, time.Hour),
		Feed:            feed,
		Target:          140,
		LeaderboardSize: 8,
	}

	router := gin.New()
	routes.SetupRoutes(router, api)

	return &testEnv{db: db, api: api, router: router}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}
