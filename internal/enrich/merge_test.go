package enrich

import (
	"testing"

	"ValueScan/internal/domain/models"
)

func f(v float64) *float64 { return &v }

func TestDifference(t *testing.T) {
	if got := Difference(f(90), f(100)); got == nil || *got != -10.0 {
		t.Fatalf("Difference(90, 100) = %v, want -10", got)
	}
	if got := Difference(f(110), f(100)); got == nil || *got != 10.0 {
		t.Fatalf("Difference(110, 100) = %v, want 10", got)
	}
	if got := Difference(f(100.333), f(100)); got == nil || *got != 0.33 {
		t.Fatalf("Difference rounding = %v, want 0.33", got)
	}
	if got := Difference(f(100), f(0)); got != nil {
		t.Fatalf("Difference with zero last = %v, want nil", got)
	}
	if got := Difference(nil, f(100)); got != nil {
		t.Fatalf("Difference with nil target = %v, want nil", got)
	}
	if got := Difference(f(100), nil); got != nil {
		t.Fatalf("Difference with nil last = %v, want nil", got)
	}
}

func TestMergeEndToEnd(t *testing.T) {
	listings := []models.RawListingRow{
		{Symbol: "AAA", Name: "Alpha", PriceText: "$100.00", VolumeText: "2M"},
	}
	targets := []models.RawTargetRow{
		{Symbol: "AAA", Low: f(90), Mean: f(108), Median: f(110), High: f(130)},
	}

	recs := Merge(listings, targets, nil)
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	r := recs[0]
	if r.Symbol != "AAA" || r.Name != "Alpha" {
		t.Fatalf("unexpected identity: %+v", r)
	}
	if r.LastPrice != 100.0 {
		t.Fatalf("last_price = %v, want 100", r.LastPrice)
	}
	if r.VolumeNumeric == nil || *r.VolumeNumeric != 2000000 {
		t.Fatalf("volume_numeric = %v, want 2000000", r.VolumeNumeric)
	}
	if r.VolumeStr != "2M" {
		t.Fatalf("volume_str = %q, want 2M", r.VolumeStr)
	}
	if *r.TargetPriceLow != 90 || *r.DifferenceLow != -10.0 {
		t.Fatalf("low = %v/%v, want 90/-10", *r.TargetPriceLow, *r.DifferenceLow)
	}
	if *r.TargetPriceMedian != 110 || *r.DifferenceMedian != 10.0 {
		t.Fatalf("median = %v/%v, want 110/10", *r.TargetPriceMedian, *r.DifferenceMedian)
	}
	if *r.TargetPriceHigh != 130 || *r.DifferenceHigh != 30.0 {
		t.Fatalf("high = %v/%v, want 130/30", *r.TargetPriceHigh, *r.DifferenceHigh)
	}
	if r.MarketCap != nil || r.PBRatio != nil {
		t.Fatalf("fundamentals should be nil without enrichment: %+v", r)
	}
}

func TestMergeInnerJoinOnTargets(t *testing.T) {
	listings := []models.RawListingRow{
		{Symbol: "AAA", Name: "Alpha", PriceText: "$10", VolumeText: "1K"},
		{Symbol: "BBB", Name: "Beta", PriceText: "$20", VolumeText: "1K"},
	}
	targets := []models.RawTargetRow{
		{Symbol: "BBB", Low: f(18), Median: f(22), High: f(25)},
	}

	recs := Merge(listings, targets, nil)
	if len(recs) != 1 || recs[0].Symbol != "BBB" {
		t.Fatalf("expected only BBB, got %+v", recs)
	}
}

func TestMergeDropsIncompleteTargets(t *testing.T) {
	listings := []models.RawListingRow{
		{Symbol: "X", Name: "Xco", PriceText: "$10", VolumeText: "1K"},
	}
	targets := []models.RawTargetRow{
		{Symbol: "X", Low: nil, Median: f(5), High: f(6)},
	}
	if recs := Merge(listings, targets, nil); len(recs) != 0 {
		t.Fatalf("row with nil target_low must be dropped, got %+v", recs)
	}

	// All-null row (unresolved ticker) is present for the join but filtered.
	targets = []models.RawTargetRow{{Symbol: "X"}}
	if recs := Merge(listings, targets, nil); len(recs) != 0 {
		t.Fatalf("all-null target row must be dropped, got %+v", recs)
	}
}

func TestMergeDropsUnparseablePrice(t *testing.T) {
	listings := []models.RawListingRow{
		{Symbol: "X", Name: "Xco", PriceText: "n/a", VolumeText: "1K"},
	}
	targets := []models.RawTargetRow{
		{Symbol: "X", Low: f(4), Median: f(5), High: f(6)},
	}
	if recs := Merge(listings, targets, nil); len(recs) != 0 {
		t.Fatalf("row without parseable price must be dropped, got %+v", recs)
	}
}

func TestMergeLeftJoinsFundamentals(t *testing.T) {
	listings := []models.RawListingRow{
		{Symbol: "aaa", Name: "Alpha", PriceText: "$100", VolumeText: "2M"},
		{Symbol: "BBB", Name: "Beta", PriceText: "$50", VolumeText: "1M"},
	}
	targets := []models.RawTargetRow{
		{Symbol: "AAA", Low: f(90), Median: f(110), High: f(130), ShortInterest: f(0.04)},
		{Symbol: "BBB", Low: f(45), Median: f(55), High: f(60)},
	}
	funds := []models.RawFundamentalsRow{
		{Symbol: "AAA", MarketCap: f(1e9), PBRatio: f(3.2), Week52High: f(140), Week52Low: f(80)},
	}

	recs := Merge(listings, targets, funds)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	// Lowercase listing symbol is uppercased and still joins.
	if recs[0].Symbol != "AAA" {
		t.Fatalf("symbol not uppercased: %q", recs[0].Symbol)
	}
	if recs[0].MarketCap == nil || *recs[0].MarketCap != 1e9 {
		t.Fatalf("AAA market_cap = %v, want 1e9", recs[0].MarketCap)
	}
	if recs[0].ShortInterest == nil || *recs[0].ShortInterest != 0.04 {
		t.Fatalf("AAA short_interest = %v, want 0.04", recs[0].ShortInterest)
	}
	if recs[0].Week52High == nil || *recs[0].Week52High != 140 || recs[0].Week52Low == nil || *recs[0].Week52Low != 80 {
		t.Fatalf("AAA 52-week range = %v/%v, want 140/80", recs[0].Week52High, recs[0].Week52Low)
	}
	// BBB has no fundamentals row; fields stay nil, row stays in.
	if recs[1].MarketCap != nil || recs[1].PBRatio != nil {
		t.Fatalf("BBB fundamentals should be nil: %+v", recs[1])
	}
}

func TestMergeVolumeParseFailureKeepsRow(t *testing.T) {
	listings := []models.RawListingRow{
		{Symbol: "X", Name: "Xco", PriceText: "$10", VolumeText: "—"},
	}
	targets := []models.RawTargetRow{
		{Symbol: "X", Low: f(9), Median: f(11), High: f(12)},
	}
	recs := Merge(listings, targets, nil)
	if len(recs) != 1 {
		t.Fatalf("unparseable volume must not drop the row, got %d rows", len(recs))
	}
	if recs[0].VolumeNumeric != nil {
		t.Fatalf("volume_numeric = %v, want nil", recs[0].VolumeNumeric)
	}
	if recs[0].VolumeStr != "—" {
		t.Fatalf("volume_str must keep original text, got %q", recs[0].VolumeStr)
	}
}
