package goods

// AlliedCurrencies is the allow-list of per-civilization currencies that are
// reported under goods rather than main resources. The set is configuration,
// not inferred: a currency is allied if and only if it is listed here.
type AlliedCurrencies map[string]bool

// DefaultAlliedCurrencies returns the stock allow-list.
func DefaultAlliedCurrencies() AlliedCurrencies {
	return AlliedCurrencies{
		"deben":   true, // Egypt
		"wu_zhu":  true, // China
		"pennies": true, // Vikings
		"cocoa":   true, // Maya
	}
}

// NewAlliedCurrencies builds an allow-list from explicit names. An empty
// list falls back to the stock one.
func NewAlliedCurrencies(names ...string) AlliedCurrencies {
	if len(names) == 0 {
		return DefaultAlliedCurrencies()
	}
	allied := make(AlliedCurrencies, len(names))
	for _, name := range names {
		allied[name] = true
	}
	return allied
}

// IsAllied reports whether a resource name belongs to the allied set.
func (a AlliedCurrencies) IsAllied(name string) bool {
	return a[name]
}
