// Package audit exports the user's reservations and the local activity
// journal to an .xlsx workbook.
package audit

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"courtbook/internal/db"
	"courtbook/internal/model"
)

const (
	SheetReservations = "Reservations"
	SheetActivity     = "Activity"
)

var (
	reservationColumns = []string{"ID", "Court", "Start", "End", "Status"}
	activityColumns    = []string{"ID", "At", "Kind", "Subject", "Detail"}
)

// BookingSource lists the current user's reservations.
type BookingSource interface {
	MyBookings(ctx context.Context) ([]model.Booking, error)
}

// Journal reads and trims the activity journal.
type Journal interface {
	ListActivity(ctx context.Context, limit int) ([]db.Activity, error)
	PruneActivity(ctx context.Context, olderThan time.Duration) (int64, error)
}

type Exporter struct {
	bookings  BookingSource
	journal   Journal
	newWriter func() SheetWriter
	logger    zerolog.Logger

	// Retention, when positive, prunes journal rows older than it after a
	// successful export.
	Retention time.Duration
}

// NewExporter builds an exporter. journal may be nil, in which case the
// Activity sheet is written with headers only.
func NewExporter(bookings BookingSource, journal Journal, logger zerolog.Logger) *Exporter {
	return &Exporter{
		bookings:  bookings,
		journal:   journal,
		newWriter: NewExcelizeWriter,
		logger:    logger.With().Str("component", "audit").Logger(),
	}
}

// Export writes the workbook to w.
func (e *Exporter) Export(ctx context.Context, w io.Writer) error {
	bookings, err := e.bookings.MyBookings(ctx)
	if err != nil {
		return fmt.Errorf("load reservations: %w", err)
	}

	var activity []db.Activity
	if e.journal != nil {
		if activity, err = e.journal.ListActivity(ctx, 0); err != nil {
			return fmt.Errorf("load activity: %w", err)
		}
	}

	xw := e.newWriter()
	defer xw.Close()

	if err := writeSheet(xw, SheetReservations, reservationColumns, len(bookings), func(i int) []any {
		b := bookings[i]
		return []any{b.ID, b.CourtName, formatTime(b.StartTime.Time), formatTime(b.EndTime.Time), b.Status()}
	}); err != nil {
		return err
	}
	if err := writeSheet(xw, SheetActivity, activityColumns, len(activity), func(i int) []any {
		a := activity[i]
		return []any{a.ID, formatTime(a.At), a.Kind, a.Subject, a.Detail}
	}); err != nil {
		return err
	}

	if err := xw.Save(w); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	e.logger.Info().
		Int("reservations", len(bookings)).
		Int("activity", len(activity)).
		Msg("Exported workbook")

	if e.Retention > 0 && e.journal != nil {
		n, err := e.journal.PruneActivity(ctx, e.Retention)
		if err != nil {
			e.logger.Error().Err(err).Msg("Failed to prune activity journal")
		} else if n > 0 {
			e.logger.Info().Int64("rows", n).Msg("Pruned activity journal")
		}
	}
	return nil
}

// ExportFile writes the workbook to path, creating parent directories.
func (e *Exporter) ExportFile(ctx context.Context, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := e.Export(ctx, f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func writeSheet(xw SheetWriter, name string, columns []string, n int, row func(int) []any) error {
	if err := xw.AddSheet(name); err != nil {
		return err
	}
	if err := xw.WriteHeader(columns); err != nil {
		return fmt.Errorf("%s header: %w", name, err)
	}
	for i := 0; i < n; i++ {
		if err := xw.WriteRow(row(i)); err != nil {
			return fmt.Errorf("%s row %d: %w", name, i+1, err)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

// GenerateFilename names an export like "courtbook_2026-10.xlsx".
func GenerateFilename(t time.Time) string {
	return fmt.Sprintf("courtbook_%s.xlsx", t.Format("2006-01"))
}
