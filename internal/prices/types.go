package prices

// Price is one row of the current-prices endpoint: the order book extremes
// for an item in a city at a quality level. Dates are upstream's zoneless
// UTC timestamps; zero prices mean no orders were seen.
type Price struct {
	ItemID           string `json:"item_id" yaml:"item_id"`
	City             string `json:"city" yaml:"city"`
	Quality          int    `json:"quality" yaml:"quality"`
	SellPriceMin     int64  `json:"sell_price_min" yaml:"sell_price_min"`
	SellPriceMinDate string `json:"sell_price_min_date" yaml:"sell_price_min_date"`
	SellPriceMax     int64  `json:"sell_price_max" yaml:"sell_price_max"`
	SellPriceMaxDate string `json:"sell_price_max_date" yaml:"sell_price_max_date"`
	BuyPriceMin      int64  `json:"buy_price_min" yaml:"buy_price_min"`
	BuyPriceMinDate  string `json:"buy_price_min_date" yaml:"buy_price_min_date"`
	BuyPriceMax      int64  `json:"buy_price_max" yaml:"buy_price_max"`
	BuyPriceMaxDate  string `json:"buy_price_max_date" yaml:"buy_price_max_date"`
}

// HasOrders reports whether any order was seen for the row.
func (p Price) HasOrders() bool {
	return p.SellPriceMin > 0 || p.SellPriceMax > 0 || p.BuyPriceMin > 0 || p.BuyPriceMax > 0
}

// History is the price history of an item in one city at one quality.
type History struct {
	Location string         `json:"location" yaml:"location"`
	ItemID   string         `json:"item_id" yaml:"item_id"`
	Quality  int            `json:"quality" yaml:"quality"`
	Data     []HistoryPoint `json:"data" yaml:"data"`
}

// HistoryPoint is one bucket of a History.
type HistoryPoint struct {
	ItemCount int64  `json:"item_count" yaml:"item_count"`
	AvgPrice  int64  `json:"avg_price" yaml:"avg_price"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// Result is the outcome of one item in a LookupMany call.
type Result struct {
	ItemID string
	Prices []Price
	Err    error
}
