package scanner

import "sort"

// maxBulkSymbols caps an ALL-sector scan
const maxBulkSymbols = 20

// sectors maps a sector name to its instrument symbols
var sectors = map[string][]string{
	"BIG_CAP":         {"BTC-USD", "ETH-USD", "SOL-USD", "BNB-USD", "XRP-USD", "ADA-USD", "AVAX-USD"},
	"AI_COINS":        {"FET-USD", "RENDER-USD", "NEAR-USD", "ICP-USD", "GRT-USD", "TAO-USD"},
	"MEME_COINS":      {"DOGE-USD", "SHIB-USD", "PEPE-USD", "WIF-USD", "BONK-USD", "FLOKI-USD"},
	"EXCHANGE_TOKENS": {"BNB-USD", "OKB-USD", "KCS-USD", "CRO-USD", "LEO-USD"},
	"DEX_DEFI":        {"UNI-USD", "CAKE-USD", "AAVE-USD", "MKR-USD", "LDO-USD", "CRV-USD"},
	"LAYER_2":         {"MATIC-USD", "ARB-USD", "OP-USD", "IMX-USD", "MNT-USD"},
	"US_TECH":         {"NVDA", "TSLA", "AAPL", "MSFT", "AMD", "META", "GOOG"},
}

// SectorSymbols resolves a sector name to its symbols. "ALL" returns the
// deduplicated union of every sector capped at maxBulkSymbols; an unknown
// sector returns nil.
func SectorSymbols(sector string) []string {
	if sector != "ALL" {
		return sectors[sector]
	}

	seen := make(map[string]bool)
	var symbols []string

	// Iterate sector names in sorted order so the capped union is stable
	names := make([]string, 0, len(sectors))
	for name := range sectors {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, sym := range sectors[name] {
			if seen[sym] {
				continue
			}
			seen[sym] = true
			symbols = append(symbols, sym)
		}
	}

	if len(symbols) > maxBulkSymbols {
		symbols = symbols[:maxBulkSymbols]
	}
	return symbols
}

// SectorNames returns all known sector names sorted
func SectorNames() []string {
	names := make([]string, 0, len(sectors))
	for name := range sectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
