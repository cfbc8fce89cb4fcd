// Package enrich joins scraped listings with analyst targets and
// fundamentals and projects them into the persisted record shape.
package enrich

import (
	"math"
	"strings"

	"ValueScan/internal/domain/models"
	"ValueScan/internal/normalize"
)

// Difference is the percentage distance from last to target, rounded to two
// decimals. Nil when either operand is missing or last is zero.
func Difference(target, last *float64) *float64 {
	if target == nil || last == nil || *last == 0 {
		return nil
	}
	d := math.Round((*target-*last)/(*last)*100*100) / 100
	return &d
}

// Merge builds the final record set from the three raw tables:
//
//   - listings x targets is an inner join on symbol; a symbol with no target
//     row never appears in the output,
//   - fundamentals is a left join; absence leaves the fields nil,
//   - rows missing any of the three target prices are dropped,
//   - rows without a parseable last price are dropped.
//
// Output order follows the listing order but carries no meaning; the store
// imposes its own order on persistence.
func Merge(listings []models.RawListingRow, targets []models.RawTargetRow, funds []models.RawFundamentalsRow) []models.StockRecord {
	byTarget := make(map[string]models.RawTargetRow, len(targets))
	for _, t := range targets {
		byTarget[strings.ToUpper(t.Symbol)] = t
	}
	byFund := make(map[string]models.RawFundamentalsRow, len(funds))
	for _, f := range funds {
		byFund[strings.ToUpper(f.Symbol)] = f
	}

	out := make([]models.StockRecord, 0, len(listings))
	for _, l := range listings {
		sym := strings.ToUpper(strings.TrimSpace(l.Symbol))
		t, ok := byTarget[sym]
		if !ok {
			continue
		}
		if t.Low == nil || t.Median == nil || t.High == nil {
			continue
		}
		last := normalize.ParsePrice(l.PriceText)
		if last == nil {
			continue
		}

		rec := models.StockRecord{
			Symbol:            sym,
			Name:              l.Name,
			LastPrice:         *last,
			TargetPriceLow:    t.Low,
			DifferenceLow:     Difference(t.Low, last),
			TargetPriceMedian: t.Median,
			DifferenceMedian:  Difference(t.Median, last),
			TargetPriceHigh:   t.High,
			DifferenceHigh:    Difference(t.High, last),
			VolumeNumeric:     normalize.ParseVolume(l.VolumeText),
			VolumeStr:         l.VolumeText,
			ShortInterest:     t.ShortInterest,
		}
		if f, ok := byFund[sym]; ok {
			rec.MarketCap = f.MarketCap
			rec.PBRatio = f.PBRatio
			rec.Week52High = f.Week52High
			rec.Week52Low = f.Week52Low
		}
		out = append(out, rec)
	}
	return out
}
