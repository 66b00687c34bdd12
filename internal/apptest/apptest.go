// Package apptest runs the whole application in-process for client tests.
// Requests go through fiber's App.Test, so no listener is opened.
package apptest

import (
	"context"
	"net/http"
	"testing"
	"time"

	"kasir/internal/app"
	"kasir/internal/config"
	"kasir/internal/database"
	"kasir/internal/models"
	"kasir/internal/repositories"
	"kasir/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// BaseURL is the address clients should use with Server.Client.
const BaseURL = "http://kasir.test"

// Server is an application instance backed by a private in-memory database.
type Server struct {
	App       *fiber.App
	DB        *gorm.DB
	UploadDir string
}

// New starts a fresh application for t.
func New(t testing.TB) *Server {
	t.Helper()
	uploadDir := t.TempDir()
	cfg := config.Config{
		AppPort:     ":0",
		DBDriver:    "sqlite",
		DatabaseDSN: database.MemoryDSN(uuid.NewString()),
		UploadDir:   uploadDir,
		JWTSecret:   "apptest_secret",
		PageLimit:   10,
		CORSOrigins: "*",
	}

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN, logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	images, err := storage.NewDiskImageStore(uploadDir)
	require.NoError(t, err)

	return &Server{
		App:       app.New(app.Options{Config: cfg, DB: db, Images: images}),
		DB:        db,
		UploadDir: uploadDir,
	}
}

// Client returns an http.Client whose requests are served by the in-process app.
func (s *Server) Client() *http.Client {
	return &http.Client{Transport: roundTripper{app: s.App}}
}

// RecordSale stores a transaction of qty units of productID, which makes
// the product undeletable.
func (s *Server) RecordSale(t testing.TB, productID string, qty int) {
	t.Helper()
	repo := repositories.NewGORMTransactionRepository(s.DB)
	err := repo.Create(context.Background(), &models.Transaction{
		Tanggal: time.Now(),
		Items:   []models.TransactionItem{{ProductID: productID, Qty: qty}},
	})
	require.NoError(t, err)
}

// ProductIDs returns the ids of every stored product in list order.
func (s *Server) ProductIDs(t testing.TB) []string {
	t.Helper()
	var ids []string
	err := s.DB.Model(&models.Product{}).Order("created_at ASC, id ASC").Pluck("id", &ids).Error
	require.NoError(t, err)
	return ids
}

type roundTripper struct {
	app *fiber.App
}

func (rt roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt.app.Test(req, -1)
}
