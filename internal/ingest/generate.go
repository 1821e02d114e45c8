package ingest

import (
	"fmt"
	"hash/fnv"
	"time"

	"marketmirror/internal/symbols"
	"marketmirror/pkg/model"
)

// durationDays maps a timeframe label to the number of history days
var durationDays = map[string]int{
	"1d": 1,
	"7d": 7,
	"1m": 30,
	"3m": 90,
}

// HistoryDays resolves a timeframe label, defaulting to 7 days
func HistoryDays(duration string) int {
	if d, ok := durationDays[duration]; ok {
		return d
	}
	return 7
}

// seed produces a stable pseudo-random value from an arbitrary key.
// Same key always yields the same walk, so snapshots are reproducible.
func seed(key string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return h.Sum64()
}

var cryptoBasePrices = map[string]float64{
	"BTC": 65000.0,
	"ETH": 3200.0,
	"SOL": 180.0,
	"ADA": 0.45,
	"DOT": 7.50,
}

var stockBasePrices = map[string]float64{
	"AAPL":  190.50,
	"GOOGL": 140.30,
	"MSFT":  350.75,
	"TSLA":  245.80,
	"AMZN":  180.25,
}

type product struct {
	name      string
	basePrice float64
}

var ecommerceProducts = map[string]product{
	"iPhone15": {"iPhone 15 Pro", 999.0},
	"AirPods":  {"AirPods Pro", 249.0},
	"MacBook":  {"MacBook Air M2", 1199.0},
	"iPad":     {"iPad Pro", 799.0},
	"Watch":    {"Apple Watch Ultra", 799.0},
}

// generate builds one synthetic snapshot for the market type
func generate(market symbols.Market, symbol, duration string, now time.Time) model.Asset {
	switch market {
	case symbols.Crypto:
		return generateCrypto(symbol, duration, now)
	case symbols.Stocks:
		return generateStock(symbol, duration, now)
	default:
		return generateEcommerce(symbol, duration, now)
	}
}

func generateCrypto(symbol, duration string, now time.Time) model.Asset {
	base, ok := cryptoBasePrices[symbol]
	if !ok {
		base = 1.0
	}

	history := walk(symbol, duration, now, base, func(h uint64) float64 {
		return float64(h%2000)/10000 - 0.1 // -10% to +10%
	}, 0)

	asset := assemble(symbol, fmt.Sprintf("%s Token", symbol), history, now)
	asset.MarketCap = asset.CurrentPrice * 21000000
	asset.High24h *= 1.05
	asset.Low24h *= 0.95
	return asset
}

func generateStock(symbol, duration string, now time.Time) model.Asset {
	base, ok := stockBasePrices[symbol]
	if !ok {
		base = 100.0
	}

	history := walk(symbol, duration, now, base, func(h uint64) float64 {
		return float64(h%1000)/10000 - 0.05 // -5% to +5%
	}, 0)

	asset := assemble(symbol, fmt.Sprintf("%s Inc.", symbol), history, now)
	asset.MarketCap = asset.CurrentPrice * 1000000000
	return asset
}

func generateEcommerce(symbol, duration string, now time.Time) model.Asset {
	p, ok := ecommerceProducts[symbol]
	if !ok {
		p = product{name: fmt.Sprintf("Product %s", symbol), basePrice: 99.0}
	}

	history := walk(symbol, duration, now, p.basePrice, func(h uint64) float64 {
		return float64(h%200)/10000 - 0.01 // -1% to +1%
	}, p.basePrice*0.7)

	// Occasional sale events replace the daily drift with a flat discount
	for i := range history {
		dateKey := history[i].Date.Format("2006-01-02")
		if seed("sale"+symbol+dateKey)%100 < 5 {
			discounted := history[i].Price * 0.85
			if discounted < p.basePrice*0.7 {
				discounted = p.basePrice * 0.7
			}
			history[i].Price = discounted
		}
	}

	return assemble(symbol, p.name, history, now)
}

// walk generates a deterministic daily price walk ending today. Each step
// is derived from the symbol and calendar date, floored at floor when set.
func walk(symbol, duration string, now time.Time, base float64, step func(uint64) float64, floor float64) []model.PricePoint {
	days := HistoryDays(duration)
	history := make([]model.PricePoint, 0, days+1)

	price := base
	for i := days; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		dateKey := date.Format("2006-01-02")

		price *= 1 + step(seed(symbol+dateKey))
		if floor > 0 && price < floor {
			price = floor
		}

		history = append(history, model.PricePoint{
			Date:   date,
			Price:  price,
			Volume: float64(seed(symbol+dateKey+"vol")%10000000) + 1000000,
		})
	}
	return history
}

// assemble derives the snapshot fields from the generated history
func assemble(symbol, name string, history []model.PricePoint, now time.Time) model.Asset {
	latest := history[len(history)-1]
	previous := latest
	if len(history) > 1 {
		previous = history[len(history)-2]
	}

	asset := model.Asset{
		Symbol:       symbol,
		Name:         name,
		CurrentPrice: latest.Price,
		PriceChange:  latest.Price - previous.Price,
		Volume:       latest.Volume,
		High24h:      latest.Price,
		Low24h:       latest.Price,
		History:      history,
		LastUpdated:  now,
	}
	if previous.Price != 0 {
		asset.PriceChangePct = (latest.Price - previous.Price) / previous.Price * 100
	}
	for _, p := range history[max(0, len(history)-2):] {
		if p.Price > asset.High24h {
			asset.High24h = p.Price
		}
		if p.Price < asset.Low24h {
			asset.Low24h = p.Price
		}
	}
	return asset
}
