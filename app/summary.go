package app

import (
	"context"

	"stocksheet/ports"

	"github.com/montanaflynn/stats"
)

// DailyStatistics aggregates one trade date.
type DailyStatistics struct {
	TradeDate       string  `json:"trade_date"`
	TotalCount      int     `json:"total_count"`
	MainNetPositive int     `json:"main_net_positive"`
	VolumeUp        int     `json:"volume_up"`
	MeanTurnover    float64 `json:"mean_turnover"`
	MedianTurnover  float64 `json:"median_turnover"`
}

// Statistics computes the summary for a trade date: how many stocks saw
// positive main-net inflow, how many grew volume against the previous
// session's column, and the turnover-rate distribution.
func (s *QueryService) Statistics(ctx context.Context, tradeDate string) (*DailyStatistics, error) {
	records, err := s.store.QueryByDate(ctx, tradeDate, ports.QueryFilter{})
	if err != nil {
		return nil, err
	}

	summary := &DailyStatistics{
		TradeDate:  tradeDate,
		TotalCount: len(records),
	}

	var turnovers []float64
	for _, rec := range records {
		if rec.MainNetAmount != nil && *rec.MainNetAmount > 0 {
			summary.MainNetPositive++
		}
		if rec.AuctionTodayVolume != nil && rec.AuctionYesterdayVolume != nil &&
			*rec.AuctionTodayVolume > *rec.AuctionYesterdayVolume {
			summary.VolumeUp++
		}
		if rec.TurnoverRate != nil {
			turnovers = append(turnovers, *rec.TurnoverRate)
		}
	}

	if len(turnovers) > 0 {
		if mean, err := stats.Mean(turnovers); err == nil {
			summary.MeanTurnover = mean
		}
		if median, err := stats.Median(turnovers); err == nil {
			summary.MedianTurnover = median
		}
	}
	return summary, nil
}
