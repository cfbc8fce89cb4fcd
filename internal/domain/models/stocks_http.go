package models

// ListRequest holds query parameters for GET /data/.
type ListRequest struct {
	Skip      int    `query:"skip" validate:"gte=0"`
	Limit     int    `query:"limit" default:"100" validate:"gte=1,lte=1000"`
	MinVolume *int64 `query:"min_volume" validate:"omitempty,gte=0"`
}

// UndervaluedRequest holds query parameters for GET /undervalued/.
// SortBy is a closed set; anything outside it is rejected at the boundary
// instead of being reflected into a column lookup.
type UndervaluedRequest struct {
	Limit              int      `query:"limit" default:"5" validate:"gte=1,lte=20"`
	MinVolume          *int64   `query:"min_volume" validate:"omitempty,gte=0"`
	MinPrice           *float64 `query:"min_price" validate:"omitempty,gte=0"`
	MaxPrice           *float64 `query:"max_price" validate:"omitempty,gte=0"`
	MinTargetDiff      *float64 `query:"min_target_diff" validate:"omitempty,gte=0"`
	ExcludeAboveMedian bool     `query:"exclude_above_median"`
	SortBy             string   `query:"sort_by" default:"difference_low" validate:"oneof=difference_low difference_median difference_high volume_numeric last_price"`
	Ascending          bool     `query:"ascending"`
}

// UndervaluedFilter is the storage-level form of UndervaluedRequest.
type UndervaluedFilter struct {
	Limit              int
	MinVolume          *int64
	MinPrice           *float64
	MaxPrice           *float64
	MinTargetDiff      *float64
	ExcludeAboveMedian bool
	SortBy             string
	Ascending          bool
}

// Filter converts the validated request into a storage filter.
func (r *UndervaluedRequest) Filter() UndervaluedFilter {
	return UndervaluedFilter{
		Limit:              r.Limit,
		MinVolume:          r.MinVolume,
		MinPrice:           r.MinPrice,
		MaxPrice:           r.MaxPrice,
		MinTargetDiff:      r.MinTargetDiff,
		ExcludeAboveMedian: r.ExcludeAboveMedian,
		SortBy:             r.SortBy,
		Ascending:          r.Ascending,
	}
}
