package handlers

import (
	"bytes"
	"fmt"

	"kasir/internal/models"
	"kasir/internal/services"

	"github.com/gofiber/fiber/v2"
)

// MIMEXLSX is the content type of the exported history workbook.
const MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TransactionHandler handles HTTP requests for sales and their history.
type TransactionHandler struct {
	service *services.TransactionService
}

func NewTransactionHandler(service *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// RegisterRoutes registers the transaction routes with the Fiber app.
func (h *TransactionHandler) RegisterRoutes(router fiber.Router) {
	transactionRoutes := router.Group("/transaction")
	transactionRoutes.Get("/", h.HandleGetHistory)
	transactionRoutes.Get("/export", h.HandleExportHistory)
	transactionRoutes.Get("/:id", h.HandleGetTransactionByID)
	transactionRoutes.Post("/", h.HandleCreateTransaction)
}

// HandleGetHistory lists transactions newest first, filtered by ?period=.
func (h *TransactionHandler) HandleGetHistory(c *fiber.Ctx) error {
	period, err := services.ParsePeriod(c.Query("period"))
	if err != nil {
		return respondError(c, err, "Invalid period")
	}

	transactions, err := h.service.History(c.UserContext(), period)
	if err != nil {
		return respondError(c, err, "Could not retrieve transactions")
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	return c.JSON(transactions)
}

func (h *TransactionHandler) HandleGetTransactionByID(c *fiber.Ctx) error {
	transactionID := c.Params("id")
	transaction, err := h.service.GetTransactionByID(c.UserContext(), transactionID)
	if err != nil {
		return respondError(c, err, fmt.Sprintf("Could not retrieve transaction %s", transactionID))
	}
	return c.JSON(transaction)
}

// HandleCreateTransaction records a sale and decrements stock.
func (h *TransactionHandler) HandleCreateTransaction(c *fiber.Ctx) error {
	var input models.TransactionInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}

	transaction, err := h.service.RecordTransaction(c.UserContext(), input)
	if err != nil {
		return respondError(c, err, "Could not record transaction")
	}
	return c.Status(fiber.StatusCreated).JSON(transaction)
}

// HandleExportHistory downloads the history of ?period= as an XLSX workbook.
func (h *TransactionHandler) HandleExportHistory(c *fiber.Ctx) error {
	period, err := services.ParsePeriod(c.Query("period"))
	if err != nil {
		return respondError(c, err, "Invalid period")
	}

	var buf bytes.Buffer
	if err := h.service.ExportHistory(c.UserContext(), period, &buf); err != nil {
		return respondError(c, err, "Could not export transactions")
	}

	c.Attachment(fmt.Sprintf("riwayat-transaksi-%s.xlsx", period))
	c.Set(fiber.HeaderContentType, MIMEXLSX)
	return c.Send(buf.Bytes())
}
