// Package symbols defines the tracked asset universes per market type.
package symbols

// Market identifies a supported market type
type Market string

const (
	Crypto    Market = "crypto"
	Stocks    Market = "stocks"
	Ecommerce Market = "ecommerce"
)

// Markets lists the supported market types
func Markets() []Market {
	return []Market{Crypto, Stocks, Ecommerce}
}

// Valid reports whether the market type is supported
func (m Market) Valid() bool {
	switch m {
	case Crypto, Stocks, Ecommerce:
		return true
	}
	return false
}

var universes = map[Market][]string{
	Stocks:    {"AAPL", "GOOGL", "MSFT", "TSLA", "AMZN", "NVDA", "META", "NFLX"},
	Crypto:    {"BTC", "ETH", "SOL", "ADA", "DOT", "LINK", "UNI", "AVAX"},
	Ecommerce: {"iPhone15", "AirPods", "MacBook", "iPad", "Watch", "PS5", "Switch", "XBox"},
}

// Supported returns the symbol universe for a market, nil if unknown
func Supported(m Market) []string {
	u, ok := universes[m]
	if !ok {
		return nil
	}
	out := make([]string, len(u))
	copy(out, u)
	return out
}

// IsSupported reports whether the symbol belongs to the market's universe
func IsSupported(m Market, symbol string) bool {
	for _, s := range universes[m] {
		if s == symbol {
			return true
		}
	}
	return false
}
