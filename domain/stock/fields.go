package stock

// Target schema field names for the stock_daily table.
const (
	FieldTradeDate              = "trade_date"
	FieldStockCode              = "stock_code"
	FieldStockName              = "stock_name"
	FieldCurrentPrice           = "current_price"
	FieldPriceChange            = "price_change"
	FieldDescription            = "description"
	FieldSector                 = "sector"
	FieldMainNetAmount          = "main_net_amount"
	FieldAuctionTodayVolume     = "auction_today_volume"
	FieldRealMarketValue        = "real_market_value"
	FieldFlowRatio              = "flow_ratio"
	FieldNetRatio               = "net_ratio"
	FieldRealTurnoverRate       = "real_turnover_rate"
	FieldTurnoverRate           = "turnover_rate"
	FieldVolumeRatio            = "volume_ratio"
	FieldPopularityValue        = "popularity_value"
	FieldAuctionNetAmount       = "auction_net_amount"
	FieldAuctionIncrease        = "auction_increase"
	FieldAuctionMainNet         = "auction_main_net"
	FieldAuctionYesterdayVolume = "auction_yesterday_volume"
	FieldMainNetRatio           = "main_net_ratio"
	FieldBuySellRatio           = "buy_sell_ratio"
	FieldPopularityChange       = "popularity_change"
)

// NumericFields lists the target fields coerced to numeric values during
// normalization. Everything else is carried as text; auction_increase in
// particular holds grade markers like "2+" and must stay text.
var NumericFields = []string{
	FieldCurrentPrice,
	FieldPriceChange,
	FieldAuctionNetAmount,
	FieldAuctionMainNet,
	FieldAuctionTodayVolume,
	FieldAuctionYesterdayVolume,
	FieldMainNetAmount,
	FieldRealMarketValue,
	FieldMainNetRatio,
	FieldFlowRatio,
	FieldNetRatio,
	FieldBuySellRatio,
	FieldTurnoverRate,
	FieldRealTurnoverRate,
	FieldVolumeRatio,
	FieldPopularityValue,
	FieldPopularityChange,
}

// RequiredFields must be present in a normalized table before it can be
// loaded; a sheet missing these columns is rejected as a whole.
var RequiredFields = []string{FieldStockCode, FieldStockName}
