package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"kasir/internal/apperrors"
	"kasir/internal/events"
	"kasir/internal/models"
	"kasir/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
)

// Period selects a window of the transaction history.
type Period string

const (
	PeriodAll     Period = "all"
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// ParsePeriod accepts the period names used by the history page; empty means all.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PeriodAll:
		return PeriodAll, nil
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return p, nil
	default:
		return "", apperrors.NewValidationError("period", "must be one of all, daily, weekly, monthly")
	}
}

// FilterByPeriod keeps the transactions that fall into period relative to now.
// Daily means the same calendar day, weekly the last seven days, monthly the
// same calendar month, all evaluated in now's location.
func FilterByPeriod(transactions []models.Transaction, period Period, now time.Time) []models.Transaction {
	if period == PeriodAll {
		return transactions
	}

	filtered := make([]models.Transaction, 0, len(transactions))
	ny, nm, nd := now.Date()
	weekAgo := now.Add(-7 * 24 * time.Hour)
	for _, t := range transactions {
		at := t.Tanggal.In(now.Location())
		y, m, d := at.Date()
		var keep bool
		switch period {
		case PeriodDaily:
			keep = y == ny && m == nm && d == nd
		case PeriodWeekly:
			keep = !at.Before(weekAgo)
		case PeriodMonthly:
			keep = y == ny && m == nm
		}
		if keep {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// TransactionService records sales and reports the transaction history.
type TransactionService struct {
	repo     repositories.TransactionRepository
	events   events.Publisher
	validate *validator.Validate
	now      func() time.Time
}

func NewTransactionService(repo repositories.TransactionRepository, publisher events.Publisher) *TransactionService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &TransactionService{
		repo:     repo,
		events:   publisher,
		validate: newValidator(),
		now:      time.Now,
	}
}

// WithClock replaces the time source, for reports relative to a fixed instant.
func (s *TransactionService) WithClock(now func() time.Time) *TransactionService {
	s.now = now
	return s
}

// RecordTransaction stores a sale. Prices are taken from the products at the
// time of sale and stock is decremented.
func (s *TransactionService) RecordTransaction(ctx context.Context, input models.TransactionInput) (*models.Transaction, error) {
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		Tanggal:   s.now(),
		Pelanggan: input.Pelanggan,
		Items:     make([]models.TransactionItem, 0, len(input.Items)),
	}
	for _, item := range input.Items {
		transaction.Items = append(transaction.Items, models.TransactionItem{
			ProductID: item.ProductID,
			Qty:       item.Qty,
		})
	}

	if err := s.repo.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	err := s.events.Publish(ctx, events.Event{Type: events.TransactionCreated, ID: transaction.ID, Data: transaction})
	if err != nil {
		log.Printf("Warning: failed to publish transaction created event for %s: %v", transaction.ID, err)
	}
	return transaction, nil
}

func (s *TransactionService) GetTransactionByID(ctx context.Context, id string) (*models.Transaction, error) {
	return s.repo.GetByID(ctx, id)
}

// History returns the transactions of a period, newest first.
func (s *TransactionService) History(ctx context.Context, period Period) ([]models.Transaction, error) {
	transactions, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByPeriod(transactions, period, s.now()), nil
}

var historyHeaders = []string{"No", "ID", "Tanggal", "Pelanggan", "Produk", "Jumlah Item", "Total"}

// ExportHistory writes the history of a period as an XLSX workbook.
func (s *TransactionService) ExportHistory(ctx context.Context, period Period, w io.Writer) error {
	transactions, err := s.History(ctx, period)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Riwayat Transaksi"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	for i, h := range historyHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	var grandTotal int64
	for i, t := range transactions {
		names := make([]string, 0, len(t.Items))
		qty := 0
		for _, item := range t.Items {
			names = append(names, fmt.Sprintf("%s x%d", item.Nama, item.Qty))
			qty += item.Qty
		}
		row := []interface{}{
			i + 1,
			t.ID,
			t.Tanggal.Format("2006-01-02 15:04"),
			t.Pelanggan,
			strings.Join(names, ", "),
			qty,
			t.Total,
		}
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
		grandTotal += t.Total
	}

	summaryRow := len(transactions) + 2
	f.SetCellValue(sheet, fmt.Sprintf("F%d", summaryRow), "TOTAL")
	f.SetCellValue(sheet, fmt.Sprintf("G%d", summaryRow), grandTotal)
	f.SetPanes(sheet, &excelize.Panes{Freeze: true, Split: true, YSplit: 1})

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
