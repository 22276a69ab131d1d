package stock

import (
	"stocksheet/domain/ingestion"
)

// Record is one stock's row for a single trade date, shaped for the
// stock_daily table. Nullable numeric columns are pointers so that absent or
// unparsable cells round-trip as SQL NULL.
type Record struct {
	TradeDate              string   `db:"trade_date" json:"trade_date"`
	StockCode              string   `db:"stock_code" json:"stock_code"`
	StockName              string   `db:"stock_name" json:"stock_name"`
	CurrentPrice           *float64 `db:"current_price" json:"current_price"`
	PriceChange            *float64 `db:"price_change" json:"price_change"`
	Description            *string  `db:"description" json:"description"`
	Sector                 *string  `db:"sector" json:"sector"`
	MainNetAmount          *float64 `db:"main_net_amount" json:"main_net_amount"`
	AuctionTodayVolume     *float64 `db:"auction_today_volume" json:"auction_today_volume"`
	RealMarketValue        *float64 `db:"real_market_value" json:"real_market_value"`
	FlowRatio              *float64 `db:"flow_ratio" json:"flow_ratio"`
	NetRatio               *float64 `db:"net_ratio" json:"net_ratio"`
	RealTurnoverRate       *float64 `db:"real_turnover_rate" json:"real_turnover_rate"`
	TurnoverRate           *float64 `db:"turnover_rate" json:"turnover_rate"`
	VolumeRatio            *float64 `db:"volume_ratio" json:"volume_ratio"`
	PopularityValue        *float64 `db:"popularity_value" json:"popularity_value"`
	AuctionNetAmount       *float64 `db:"auction_net_amount" json:"auction_net_amount"`
	AuctionIncrease        *string  `db:"auction_increase" json:"auction_increase"`
	AuctionMainNet         *float64 `db:"auction_main_net" json:"auction_main_net"`
	AuctionYesterdayVolume *float64 `db:"auction_yesterday_volume" json:"auction_yesterday_volume"`
	MainNetRatio           *float64 `db:"main_net_ratio" json:"main_net_ratio"`
	BuySellRatio           *float64 `db:"buy_sell_ratio" json:"buy_sell_ratio"`
	PopularityChange       *float64 `db:"popularity_change" json:"popularity_change"`
}

// RecordsFromTable converts a normalized target table into stock records for
// the given trade date. Cleaning (code padding) is applied per record.
func RecordsFromTable(t *ingestion.TargetTable, tradeDate string) []Record {
	records := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := Record{
			TradeDate:              tradeDate,
			StockCode:              CleanStockCode(row[FieldStockCode].AsText()),
			StockName:              row[FieldStockName].AsText(),
			CurrentPrice:           row[FieldCurrentPrice].Float64Ptr(),
			PriceChange:            row[FieldPriceChange].Float64Ptr(),
			Description:            textPtr(row[FieldDescription]),
			Sector:                 textPtr(row[FieldSector]),
			MainNetAmount:          row[FieldMainNetAmount].Float64Ptr(),
			AuctionTodayVolume:     row[FieldAuctionTodayVolume].Float64Ptr(),
			RealMarketValue:        row[FieldRealMarketValue].Float64Ptr(),
			FlowRatio:              row[FieldFlowRatio].Float64Ptr(),
			NetRatio:               row[FieldNetRatio].Float64Ptr(),
			RealTurnoverRate:       row[FieldRealTurnoverRate].Float64Ptr(),
			TurnoverRate:           row[FieldTurnoverRate].Float64Ptr(),
			VolumeRatio:            row[FieldVolumeRatio].Float64Ptr(),
			PopularityValue:        row[FieldPopularityValue].Float64Ptr(),
			AuctionNetAmount:       row[FieldAuctionNetAmount].Float64Ptr(),
			AuctionIncrease:        textPtr(row[FieldAuctionIncrease]),
			AuctionMainNet:         row[FieldAuctionMainNet].Float64Ptr(),
			AuctionYesterdayVolume: row[FieldAuctionYesterdayVolume].Float64Ptr(),
			MainNetRatio:           row[FieldMainNetRatio].Float64Ptr(),
			BuySellRatio:           row[FieldBuySellRatio].Float64Ptr(),
			PopularityChange:       row[FieldPopularityChange].Float64Ptr(),
		}
		// A sheet date column overrides nothing: the trade date comes from
		// the filename or the caller, matching the import contract.
		records = append(records, rec)
	}
	return records
}

func textPtr(v ingestion.Value) *string {
	if v.TextVal != nil {
		return v.TextVal
	}
	return nil
}
