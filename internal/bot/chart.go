package bot

import (
	"fmt"
	"time"

	"github.com/go-analyze/charts"

	"github.com/akerbs/pocket-accountant-bot/internal/service"
)

// GenerateSpendingChart renders the snapshot's category breakdown as a pie
// chart PNG.
func GenerateSpendingChart(stats *service.Snapshot, title string) ([]byte, error) {
	if len(stats.Categories) == 0 {
		return nil, fmt.Errorf("no spending to chart")
	}

	values := make([]float64, 0, len(stats.Categories))
	names := make([]string, 0, len(stats.Categories))
	for _, cat := range stats.Categories {
		values = append(values, cat.Total.InexactFloat64())
		names = append(names, cat.Name)
	}

	p, err := charts.PieRender(
		values,
		charts.TitleOptionFunc(charts.TitleOption{Text: title}),
		charts.LegendLabelsOptionFunc(names),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	return buf, nil
}

// chartFilename creates a filename like "spending_2026-08.png".
func chartFilename(now time.Time) string {
	return fmt.Sprintf("spending_%s.png", now.Format("2006-01"))
}
