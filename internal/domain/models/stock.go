package models

// RawListingRow is one row scraped from a market-listing page. Price and
// volume keep their original display text until normalization.
type RawListingRow struct {
	Symbol     string
	Name       string
	PriceText  string
	VolumeText string
}

// RawTargetRow carries per-symbol analyst price targets. Nil fields mean
// "analyst data unavailable" and must stay nil through the whole pipeline,
// never collapse to zero. ShortInterest rides along because it comes from the
// same quoteSummary call.
type RawTargetRow struct {
	Symbol        string
	Low           *float64
	Mean          *float64
	Median        *float64
	High          *float64
	ShortInterest *float64
}

// RawFundamentalsRow is the optional fundamentals enrichment for a symbol.
type RawFundamentalsRow struct {
	Symbol     string
	MarketCap  *float64
	PBRatio    *float64
	Week52High *float64
	Week52Low  *float64
}

// StockRecord is the persisted entity, one row per symbol. Symbol is the
// primary key, always uppercase. Pointer fields map to Nullable columns and
// serialize as JSON null when absent.
type StockRecord struct {
	Symbol            string   `json:"symbol"`
	Name              string   `json:"name"`
	LastPrice         float64  `json:"last_price"`
	TargetPriceLow    *float64 `json:"target_price_low"`
	DifferenceLow     *float64 `json:"difference_low"`
	TargetPriceMedian *float64 `json:"target_price_median"`
	DifferenceMedian  *float64 `json:"difference_median"`
	TargetPriceHigh   *float64 `json:"target_price_high"`
	DifferenceHigh    *float64 `json:"difference_high"`
	VolumeNumeric     *float64 `json:"volume_numeric"`
	VolumeStr         string   `json:"volume_str"`
	MarketCap         *float64 `json:"market_cap"`
	PBRatio           *float64 `json:"pb_ratio"`
	Week52High        *float64 `json:"week52_high"`
	Week52Low         *float64 `json:"week52_low"`
	ShortInterest     *float64 `json:"short_interest"`
}

// Stats summarizes the stored table.
type Stats struct {
	TotalStocks   int64 `json:"total_stocks"`
	AverageVolume int64 `json:"average_volume"`
}
