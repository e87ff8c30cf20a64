package reporting

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Adeela565/ClickSafe/internal/domain"
	"github.com/Adeela565/ClickSafe/internal/pkg/logger"
)

// CSVFilename is the attachment name of the CSV export.
const CSVFilename = "clicksafe_events.csv"

// XLSXFilename is the attachment name of the workbook export.
const XLSXFilename = "clicksafe_events.xlsx"

// ExportColumns is the header row shared by both export formats.
var ExportColumns = []string{"event_id", "campaign_id", "campaign_name", "recipient_email", "event_type", "ip", "timestamp"}

const exportTimeLayout = "2006-01-02 15:04:05"

func exportRecord(r domain.EventRow) []string {
	return []string{
		strconv.FormatInt(r.EventID, 10),
		strconv.FormatInt(r.CampaignID, 10),
		r.CampaignName,
		r.RecipientEmail,
		string(r.Type),
		r.IP,
		r.Timestamp.UTC().Format(exportTimeLayout),
	}
}

// WriteCSV writes every event matching campaignID, newest first. A campaign
// with no events, including one that does not exist, yields the header
// row only.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer, campaignID *int64) (int, error) {
	rows, err := s.repo.ListEvents(ctx, domain.EventFilter{CampaignID: campaignID})
	if err != nil {
		return 0, err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(exportRecord(r)); err != nil {
			return 0, fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}
	return len(rows), nil
}

// WriteXLSX writes the same rows as WriteCSV to an "Events" sheet and the
// headline counts to a "Summary" sheet.
func (s *Service) WriteXLSX(ctx context.Context, w io.Writer, campaignID *int64) (int, error) {
	rows, err := s.repo.ListEvents(ctx, domain.EventFilter{CampaignID: campaignID})
	if err != nil {
		return 0, err
	}
	sum, err := s.repo.Summarize(ctx, campaignID)
	if err != nil {
		return 0, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const events = "Events"
	if err := f.SetSheetName("Sheet1", events); err != nil {
		return 0, fmt.Errorf("name sheet: %w", err)
	}
	if err := f.SetSheetRow(events, "A1", &ExportColumns); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []any{r.EventID, r.CampaignID, r.CampaignName, r.RecipientEmail, string(r.Type), r.IP, r.Timestamp.UTC().Format(exportTimeLayout)}
		if err := f.SetSheetRow(events, cell, &values); err != nil {
			return 0, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	const summary = "Summary"
	if _, err := f.NewSheet(summary); err != nil {
		return 0, fmt.Errorf("add summary sheet: %w", err)
	}
	lines := [][]any{
		{"metric", "value"},
		{"delivered", sum.Delivered},
		{"clicked", sum.Clicked},
		{"reported", sum.Reported},
		{"click_rate_pct", sum.ClickRate()},
		{"report_rate_pct", sum.ReportRate()},
	}
	for i, line := range lines {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summary, cell, &line); err != nil {
			return 0, fmt.Errorf("write summary: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("write workbook: %w", err)
	}
	return len(rows), nil
}

// ArchiveCSV renders the CSV export and uploads it under
// "<prefix><UTC timestamp>_clicksafe_events.csv". It returns the stored
// object's location.
func (s *Service) ArchiveCSV(ctx context.Context, store ObjectStore, prefix string, campaignID *int64, now time.Time) (string, error) {
	var buf bytes.Buffer
	n, err := s.WriteCSV(ctx, &buf, campaignID)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s%s_%s", prefix, now.UTC().Format("20060102T150405Z"), CSVFilename)
	loc, err := store.Put(ctx, key, &buf, "text/csv")
	if err != nil {
		return "", fmt.Errorf("archive export: %w", err)
	}
	logger.Info("export archived", "key", key, "rows", n)
	return loc, nil
}
