// Package scraper retrieves raw stock rows from public market-listing pages.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ValueScan/internal/domain/models"
	drepo "ValueScan/internal/domain/repository"
	xhttp "ValueScan/pkg/http"
	applogger "ValueScan/pkg/logger"

	"github.com/PuerkitoBio/goquery"
)

// Columns a listing table must carry to be usable. Tables missing any of
// them are skipped wholesale.
var requiredColumns = []string{"Symbol", "Name", "Price", "Volume"}

// Config holds listing scraper settings.
type Config struct {
	BaseURL   string
	Sections  []string
	UserAgent string
	Timeout   time.Duration
}

// YahooListings scrapes the configured sections of a Yahoo-style markets
// site. It implements repository.ListingSource.
type YahooListings struct {
	cfg     Config
	client  *xhttp.Client
	logger  *applogger.Logger
	metrics drepo.Metrics
}

// New creates a listing scraper.
func New(cfg Config, logger *applogger.Logger, metrics drepo.Metrics) *YahooListings {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &YahooListings{
		cfg:     cfg,
		client:  xhttp.NewClient(xhttp.WithTimeout(cfg.Timeout)),
		logger:  logger,
		metrics: metrics,
	}
}

// FetchListings fetches every configured section, concatenates the usable
// rows and de-duplicates by symbol, first occurrence winning. A failed
// section is logged and skipped; it never aborts the other sections.
func (y *YahooListings) FetchListings(ctx context.Context) ([]models.RawListingRow, error) {
	var combined []models.RawListingRow
	seen := make(map[string]bool)

	for _, section := range y.cfg.Sections {
		rows, err := y.fetchSection(ctx, section)
		if err != nil {
			y.logger.Warn("listing section fetch failed",
				applogger.String("section", section),
				applogger.Error(err),
			)
			y.metrics.RecordError("listing_source")
			continue
		}
		y.metrics.RecordSourceRows(section, len(rows))

		kept := 0
		for _, r := range rows {
			sym := strings.ToUpper(strings.TrimSpace(r.Symbol))
			if sym == "" || seen[sym] {
				continue
			}
			seen[sym] = true
			combined = append(combined, r)
			kept++
		}
		y.logger.Info("listing section scraped",
			applogger.String("section", section),
			applogger.Int("rows", len(rows)),
			applogger.Int("kept", kept),
		)
	}

	return combined, nil
}

func (y *YahooListings) fetchSection(ctx context.Context, section string) ([]models.RawListingRow, error) {
	u := fmt.Sprintf("%s/%s/", strings.TrimRight(y.cfg.BaseURL, "/"), section)

	resp, err := y.client.SendRequest(ctx, &xhttp.RequestOptions{
		Method: http.MethodGet,
		URL:    u,
		Headers: map[string]string{
			"User-Agent": y.cfg.UserAgent,
			"Accept":     "text/html,application/xhtml+xml",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", section, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch %s: status %d: %s", section, resp.StatusCode, body)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", section, err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("parse %s: no table found", section)
	}
	return extractRows(table)
}

// extractRows reads the first table's header, requires the four listing
// columns and maps each body row onto a RawListingRow.
func extractRows(table *goquery.Selection) ([]models.RawListingRow, error) {
	colIdx := make(map[string]int)
	table.Find("thead th").Each(func(i int, th *goquery.Selection) {
		name := strings.TrimSpace(th.Text())
		if _, ok := colIdx[name]; !ok {
			colIdx[name] = i
		}
	})
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("table missing column %q", col)
		}
	}

	var rows []models.RawListingRow
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		cell := func(col string) string {
			idx := colIdx[col]
			if idx >= cells.Length() {
				return ""
			}
			return strings.TrimSpace(cells.Eq(idx).Text())
		}
		row := models.RawListingRow{
			Symbol:     cell("Symbol"),
			Name:       cell("Name"),
			PriceText:  cell("Price"),
			VolumeText: cell("Volume"),
		}
		if row.Symbol == "" {
			return
		}
		rows = append(rows, row)
	})
	return rows, nil
}
