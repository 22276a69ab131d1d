package config

import (
	"encoding/json"
	"os"

	"stocksheet/domain/ingestion"
	"stocksheet/domain/stock"
	"stocksheet/internal/errors"
)

// DefaultColumnMapping translates the export's Chinese headers to the target
// schema. Several headers are synonyms for the same field: the export format
// renamed columns over time (今日成交额 became 成交额, 夹流比 became 净流占比)
// and any one sheet carries only one of each pair. Column order in the sheet
// decides which synonym supplies the value.
func DefaultColumnMapping() ingestion.Mapping {
	return ingestion.Mapping{
		"交易日期": stock.FieldTradeDate,
		"股票代码": stock.FieldStockCode,
		"股票名称": stock.FieldStockName,
		"当前价格": stock.FieldCurrentPrice,
		"涨幅":   stock.FieldPriceChange,
		"描述":   stock.FieldDescription,
		"板块":   stock.FieldSector,
		"主力净额": stock.FieldMainNetAmount,
		"成交额":  stock.FieldAuctionTodayVolume,
		"实流市值": stock.FieldRealMarketValue,
		"净流占比": stock.FieldFlowRatio,
		"净成占比": stock.FieldNetRatio,
		"实换手率": stock.FieldRealTurnoverRate,
		"换手率":  stock.FieldTurnoverRate,
		"量比":   stock.FieldVolumeRatio,
		"人气值":  stock.FieldPopularityValue,
		// Legacy headers still present in older exports.
		"竞价净额":   stock.FieldAuctionNetAmount,
		"竞价增额":   stock.FieldAuctionIncrease,
		"增额":     stock.FieldAuctionMainNet,
		"今日成交额":  stock.FieldAuctionTodayVolume,
		"昨日成交额":  stock.FieldAuctionYesterdayVolume,
		"主力净额对比": stock.FieldMainNetRatio,
		"夹流比":    stock.FieldFlowRatio,
		"买卖手":    stock.FieldBuySellRatio,
		"入气值增幅":  stock.FieldPopularityChange,
	}
}

// LoadMapping returns the column mapping to use: the JSON file at path when
// given, the built-in default otherwise. The loaded mapping is validated
// before use.
func LoadMapping(path string) (ingestion.Mapping, error) {
	if path == "" {
		return DefaultColumnMapping(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read mapping file %s", path)
	}

	var mapping ingestion.Mapping
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, errors.Wrapf(err, "mapping file %s is not valid JSON", path)
	}
	if err := mapping.Validate(); err != nil {
		return nil, errors.Wrapf(err, "mapping file %s is invalid", path)
	}
	return mapping, nil
}
