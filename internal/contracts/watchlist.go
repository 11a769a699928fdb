package contracts

// WatchlistEntry is one persisted instrument under periodic monitoring.
// Strategy/Timeframe/Period are only meaningful when Mode is MANUAL;
// symbol uniqueness is enforced by the store.
type WatchlistEntry struct {
	Symbol    string   `json:"symbol"`
	Mode      Mode     `json:"mode"`
	Strategy  Strategy `json:"strategy"`
	Timeframe string   `json:"timeframe"`
	Period    string   `json:"period"`
}
