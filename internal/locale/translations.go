package locale

var translations = map[string]map[string]string{
	English: {
		"title":             "Ludo por aí ☀️🚲",
		"subtitle":          "A journey by bike from Natal to... ?",
		"arrival-label":     "Arrival",
		"distance-label":    "Distance",
		"basemap-outdoors":  "Outdoors",
		"basemap-dark":      "Dark",
		"basemap-satellite": "Satellite",
	},
	Base: {
		"title":             "Ludo por aí ☀️🚲",
		"subtitle":          "Jornada de bike de Natal até ...?",
		"arrival-label":     "Chegada",
		"distance-label":    "Distância",
		"basemap-outdoors":  "Natureza",
		"basemap-dark":      "Escuro",
		"basemap-satellite": "Satélite",
	},
}
