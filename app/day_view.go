package app

import (
	"context"

	"stocksheet/domain/stock"
	"stocksheet/internal"
	"stocksheet/ports"
)

// DayRow is one stock's record for a date plus its day-over-day comparison
// ratios. The ratios are nil when there is no previous trade date, the stock
// did not trade the previous day, or either side of the division is missing
// or zero.
type DayRow struct {
	stock.Record
	MainNetPrevRatio *float64 `json:"main_net_prev_ratio"`
	VolumePrevRatio  *float64 `json:"volume_prev_ratio"`
}

// QueryService answers read-side questions about loaded data.
type QueryService struct {
	store ports.StockStore
	log   *internal.Logger
}

// NewQueryService creates a query service over the given store.
func NewQueryService(store ports.StockStore, log *internal.Logger) *QueryService {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &QueryService{store: store, log: log}
}

// DayWithComparison returns a date's records with main-net and volume ratios
// against the previous trade date.
func (s *QueryService) DayWithComparison(ctx context.Context, tradeDate string, filter ports.QueryFilter) ([]DayRow, error) {
	today, err := s.store.QueryByDate(ctx, tradeDate, filter)
	if err != nil {
		return nil, err
	}

	rows := make([]DayRow, len(today))
	for i, rec := range today {
		rows[i] = DayRow{Record: rec}
	}
	if len(rows) == 0 {
		return rows, nil
	}

	prevDate, err := s.store.PreviousTradeDate(ctx, tradeDate)
	if err != nil {
		return nil, err
	}
	if prevDate == "" {
		s.log.Debug("[query] %s has no previous trade date, comparison left empty", tradeDate)
		return rows, nil
	}

	prev, err := s.store.QueryByDate(ctx, prevDate, ports.QueryFilter{})
	if err != nil {
		return nil, err
	}
	prevByCode := make(map[string]stock.Record, len(prev))
	for _, rec := range prev {
		prevByCode[rec.StockCode] = rec
	}

	for i := range rows {
		prevRec, ok := prevByCode[rows[i].StockCode]
		if !ok {
			continue
		}
		rows[i].MainNetPrevRatio = ratio(rows[i].MainNetAmount, prevRec.MainNetAmount)
		rows[i].VolumePrevRatio = ratio(rows[i].AuctionTodayVolume, prevRec.AuctionTodayVolume)
	}
	return rows, nil
}

func ratio(today, prev *float64) *float64 {
	if today == nil || prev == nil || *prev == 0 {
		return nil
	}
	r := *today / *prev
	return &r
}
