package goods

import "fmt"

// Era identifies one era group by its short code, the same code the wiki
// appends to good names (e.g. "wool_BA").
type Era string

const (
	EraStoneAge        Era = "SA"
	EraBronzeAge       Era = "BA"
	EraMinoanEra       Era = "ME"
	EraClassicalGreece Era = "CG"
	EraEarlyRome       Era = "ER"
	EraRomanEmpire     Era = "RE"
	EraByzantineEra    Era = "BE"
	EraAgeOfTheFranks  Era = "AF"
	EraFeudalAge       Era = "FA"
	EraIberianEra      Era = "IE"
)

// Eras returns every era in chronological order.
func Eras() []Era {
	return []Era{
		EraStoneAge,
		EraBronzeAge,
		EraMinoanEra,
		EraClassicalGreece,
		EraEarlyRome,
		EraRomanEmpire,
		EraByzantineEra,
		EraAgeOfTheFranks,
		EraFeudalAge,
		EraIberianEra,
	}
}

// ParseEra validates an era code.
func ParseEra(code string) (Era, error) {
	for _, era := range Eras() {
		if Era(code) == era {
			return era, nil
		}
	}
	return "", fmt.Errorf("unknown era code: %q", code)
}

// eraNames maps codes to display names.
var eraNames = map[Era]string{
	EraStoneAge:        "Stone Age",
	EraBronzeAge:       "Bronze Age",
	EraMinoanEra:       "Minoan Era",
	EraClassicalGreece: "Classical Greece",
	EraEarlyRome:       "Early Rome",
	EraRomanEmpire:     "Roman Empire",
	EraByzantineEra:    "Byzantine Era",
	EraAgeOfTheFranks:  "Age of the Franks",
	EraFeudalAge:       "Feudal Age",
	EraIberianEra:      "Iberian Era",
}

// Name returns the display name of the era.
func (e Era) Name() string {
	if name, ok := eraNames[e]; ok {
		return name
	}
	return string(e)
}
