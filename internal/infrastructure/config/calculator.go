package config

// CalculatorConfig holds aggregation settings
type CalculatorConfig struct {
	// Allied currencies are reported under goods instead of main resources.
	// The list is an explicit allow-list, never inferred.
	AlliedCurrencies []string `mapstructure:"allied_currencies"`
}
