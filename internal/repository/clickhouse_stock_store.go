package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"ValueScan/internal/domain/models"
	domrepo "ValueScan/internal/domain/repository"
	applogger "ValueScan/pkg/logger"
)

// recordColumns is the column list of yahoo_data, in scan order.
const recordColumns = "symbol, name, last_price, target_price_low, difference_low, " +
	"target_price_median, difference_median, target_price_high, difference_high, " +
	"volume_numeric, volume_str, market_cap, pb_ratio, week52_high, week52_low, short_interest"

// sortColumns is the closed mapping from API sort keys to columns. Anything
// outside this map is rejected; a request value is never reflected into SQL.
var sortColumns = map[string]string{
	"difference_low":    "difference_low",
	"difference_median": "difference_median",
	"difference_high":   "difference_high",
	"volume_numeric":    "volume_numeric",
	"last_price":        "last_price",
}

// CHStockStore implements StockStore on ClickHouse. The live table and its
// staging twin share a schema; Replace fills staging and swaps the two
// atomically so readers never see a half-written or empty table.
type CHStockStore struct {
	db      *sql.DB
	table   string
	staging string
	l       *applogger.Logger
}

// NewCHStockStore creates a store over the given live table name
// (database-qualified, e.g. "valuescan.yahoo_data").
func NewCHStockStore(db *sql.DB, table string) *CHStockStore {
	return &CHStockStore{db: db, table: table, staging: table + "_staging"}
}

// SetLogger injects a structured logger.
func (s *CHStockStore) SetLogger(l *applogger.Logger) { s.l = l }

// Schema returns the idempotent DDL for the live and staging tables.
func Schema(database, table string) []string {
	ddl := func(name string) string {
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
			symbol String,
			name String,
			last_price Float64,
			target_price_low Nullable(Float64),
			difference_low Nullable(Float64),
			target_price_median Nullable(Float64),
			difference_median Nullable(Float64),
			target_price_high Nullable(Float64),
			difference_high Nullable(Float64),
			volume_numeric Nullable(Float64),
			volume_str String,
			market_cap Nullable(Float64),
			pb_ratio Nullable(Float64),
			week52_high Nullable(Float64),
			week52_low Nullable(Float64),
			short_interest Nullable(Float64)
		) ENGINE = MergeTree ORDER BY symbol`, database, name)
	}
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		ddl(table),
		ddl(table + "_staging"),
	}
}

func (s *CHStockStore) Init(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Replace swaps in a fresh snapshot: truncate staging, bulk-insert, exchange
// the two tables. The exchange is the only step readers can observe.
func (s *CHStockStore) Replace(ctx context.Context, recs []models.StockRecord) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s", s.staging)); err != nil {
		return fmt.Errorf("truncate staging: %w", err)
	}

	const chunkSize = 1000
	for start := 0; start < len(recs); start += chunkSize {
		end := start + chunkSize
		if end > len(recs) {
			end = len(recs)
		}
		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*16)
		for _, r := range recs[start:end] {
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				r.Symbol, r.Name, r.LastPrice,
				r.TargetPriceLow, r.DifferenceLow,
				r.TargetPriceMedian, r.DifferenceMedian,
				r.TargetPriceHigh, r.DifferenceHigh,
				r.VolumeNumeric, r.VolumeStr,
				r.MarketCap, r.PBRatio,
				r.Week52High, r.Week52Low, r.ShortInterest,
			)
		}
		q := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", s.staging, recordColumns, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert staging: %w", err)
		}
	}

	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("EXCHANGE TABLES %s AND %s", s.table, s.staging)); err != nil {
		return fmt.Errorf("exchange tables: %w", err)
	}

	// Staging now holds the previous snapshot; drop it eagerly.
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s", s.staging)); err != nil && s.l != nil {
		s.l.Warn("truncate old snapshot failed", applogger.Error(err))
	}
	return nil
}

func (s *CHStockStore) List(ctx context.Context, skip, limit int, minVolume *int64) ([]models.StockRecord, error) {
	q := fmt.Sprintf("SELECT %s FROM %s", recordColumns, s.table)
	var args []interface{}
	if minVolume != nil {
		q += " WHERE volume_numeric >= ?"
		args = append(args, *minVolume)
	}
	q += " ORDER BY symbol LIMIT ? OFFSET ?"
	args = append(args, limit, skip)

	return s.queryRecords(ctx, q, args...)
}

func (s *CHStockStore) Get(ctx context.Context, symbol string) (models.StockRecord, error) {
	q := fmt.Sprintf("SELECT %s FROM %s WHERE symbol = ? LIMIT 1", recordColumns, s.table)
	recs, err := s.queryRecords(ctx, q, symbol)
	if err != nil {
		return models.StockRecord{}, err
	}
	if len(recs) == 0 {
		return models.StockRecord{}, domrepo.ErrNotFound
	}
	return recs[0], nil
}

func (s *CHStockStore) Stats(ctx context.Context) (models.Stats, error) {
	q := fmt.Sprintf("SELECT count(), avg(volume_numeric) FROM %s", s.table)
	var total int64
	var avg sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, q).Scan(&total, &avg); err != nil {
		return models.Stats{}, fmt.Errorf("stats: %w", err)
	}
	st := models.Stats{TotalStocks: total}
	if avg.Valid && !math.IsNaN(avg.Float64) {
		st.AverageVolume = int64(avg.Float64)
	}
	return st, nil
}

func (s *CHStockStore) Undervalued(ctx context.Context, f models.UndervaluedFilter) ([]models.StockRecord, error) {
	col, ok := sortColumns[f.SortBy]
	if !ok {
		return nil, fmt.Errorf("unknown sort key %q", f.SortBy)
	}

	conds := []string{"difference_low IS NOT NULL"}
	var args []interface{}
	if f.MinVolume != nil {
		conds = append(conds, "volume_numeric >= ?")
		args = append(args, *f.MinVolume)
	}
	if f.MinPrice != nil {
		conds = append(conds, "last_price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		conds = append(conds, "last_price <= ?")
		args = append(args, *f.MaxPrice)
	}
	if f.MinTargetDiff != nil {
		conds = append(conds, "difference_low >= ?")
		args = append(args, *f.MinTargetDiff)
	}
	if f.ExcludeAboveMedian {
		conds = append(conds, "difference_median >= 0")
	}

	dir := "DESC"
	if f.Ascending {
		dir = "ASC"
	}
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s %s LIMIT ?",
		recordColumns, s.table, strings.Join(conds, " AND "), col, dir)
	args = append(args, f.Limit)

	return s.queryRecords(ctx, q, args...)
}

func (s *CHStockStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHStockStore) Close() error {
	return nil // pool owned by pkg/clickhouse
}

func (s *CHStockStore) queryRecords(ctx context.Context, q string, args ...interface{}) ([]models.StockRecord, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse query error", applogger.String("query", q), applogger.Error(err))
		}
		return nil, fmt.Errorf("query stocks: %w", err)
	}
	defer rows.Close()

	out := make([]models.StockRecord, 0, 64)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func scanRecord(rows *sql.Rows) (models.StockRecord, error) {
	var r models.StockRecord
	var tLow, dLow, tMed, dMed, tHigh, dHigh, vol, mcap, pb, w52h, w52l, short sql.NullFloat64
	if err := rows.Scan(
		&r.Symbol, &r.Name, &r.LastPrice,
		&tLow, &dLow, &tMed, &dMed, &tHigh, &dHigh,
		&vol, &r.VolumeStr, &mcap, &pb, &w52h, &w52l, &short,
	); err != nil {
		return models.StockRecord{}, err
	}
	r.TargetPriceLow = nullableFloat(tLow)
	r.DifferenceLow = nullableFloat(dLow)
	r.TargetPriceMedian = nullableFloat(tMed)
	r.DifferenceMedian = nullableFloat(dMed)
	r.TargetPriceHigh = nullableFloat(tHigh)
	r.DifferenceHigh = nullableFloat(dHigh)
	r.VolumeNumeric = nullableFloat(vol)
	r.MarketCap = nullableFloat(mcap)
	r.PBRatio = nullableFloat(pb)
	r.Week52High = nullableFloat(w52h)
	r.Week52Low = nullableFloat(w52l)
	r.ShortInterest = nullableFloat(short)
	return r, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
