package goods

// workshopGoods is the static table mapping (era, workshop) to the canonical
// good the workshop produces. Goods carry no era suffix here; the suffix is
// attached by the wiki on tagged cost names. Note "wool" is produced in two
// adjacent eras, which is why the forward mapping needs era context.
var workshopGoods = map[Era]map[string]string{
	EraBronzeAge: {
		"spinner":    "wool",
		"stonemason": "alabaster_idol",
		"smith":      "bronze_bracelet",
	},
	EraMinoanEra: {
		"shepherd": "wool",
		"presser":  "olive_oil",
		"armorer":  "spears",
	},
	EraClassicalGreece: {
		"tailor":  "toga",
		"vintner": "wine",
		"mason":   "column",
	},
	EraEarlyRome: {
		"tanner":      "sandals",
		"glassblower": "glass_vial",
		"cartwright":  "chariot_wheel",
	},
	EraRomanEmpire: {
		"jeweler":   "gold_laurel",
		"saltworks": "salt",
		"weaver":    "tunic",
	},
	EraByzantineEra: {
		"iconographer": "icon",
		"silkweaver":   "silk",
		"chandler":     "wax_candle",
	},
	EraAgeOfTheFranks: {
		"brewer":       "barrel_of_ale",
		"parchmenter":  "parchment",
		"blacksmith":   "horseshoe",
	},
	EraFeudalAge: {
		"dyer":       "indigo_dye",
		"fletcher":   "arrows",
		"cooper":     "barrel",
	},
	EraIberianEra: {
		"tilemaker":  "azulejo_tile",
		"ropewalker": "rope",
		"orchardist": "orange_crate",
	},
}

// WorkshopGood resolves the canonical good produced by a workshop in an era.
func WorkshopGood(era Era, workshop string) (string, bool) {
	good, ok := workshopGoods[era][workshop]
	return good, ok
}

// Workshops returns the workshop names available in an era.
func Workshops(era Era) []string {
	table := workshopGoods[era]
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	return names
}
