package sheets

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/agrovista/agrovista/internal/config"
	"github.com/agrovista/agrovista/internal/domain/models"
)

const reportRange = "Reports!A:J"

// Exporter appends farm report snapshots to a spreadsheet. Exports are a
// convenience copy for sharing; the exported rows are never read back and are
// not a source of truth.
type Exporter interface {
	AppendReport(ctx context.Context, when time.Time, report models.FarmReport) error
}

// GoogleSheetExporter implements Exporter using the official Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendReport writes one row per report snapshot.
func (e *GoogleSheetExporter) AppendReport(ctx context.Context, when time.Time, report models.FarmReport) error {
	perHa := ""
	if report.Production.YieldPerHectare != nil {
		perHa = fmt.Sprintf("%.2f", *report.Production.YieldPerHectare)
	}

	values := []interface{}{
		when.Format("2006-01-02"),
		report.Production.TotalCrops,
		report.Production.TotalArea,
		report.Production.EstimatedYield,
		perHa,
		report.Planning.UpcomingHarvests,
		report.Inventory.TotalItems,
		report.Inventory.TotalValue,
		report.Inventory.LowStockCount,
		report.Inventory.CategoryDiversity,
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, reportRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append report row: %w", err)
	}

	e.logger.Debug("report row appended to sheet", zap.String("range", reportRange))
	return nil
}
