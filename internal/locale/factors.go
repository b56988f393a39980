package locale

import "strconv"

// FactorKind identifies one rule of the scoring model that can contribute a
// sentence to an analysis.
type FactorKind int

const (
	FactorSaturatedSoil FactorKind = iota
	FactorHeavyRecentRain
	FactorHeavyRainNext24h
	FactorWeeklyRain
	FactorRiverAboveMedian
	FactorIntenseDownpour
	FactorDryWeatherFlood
	FactorLowConfidence
	FactorStable
)

// Factor is a triggered rule plus the measurement quoted in its sentence.
// Value is ignored by kinds whose sentence carries no number.
type Factor struct {
	Kind  FactorKind
	Value float64
}

// factorTemplate holds the prose around the interpolated value. Kinds that
// quote no value render as the prefix alone.
type factorTemplate struct {
	prefix string
	suffix string
}

var factorText = map[Language]map[FactorKind]factorTemplate{
	English: {
		FactorSaturatedSoil:    {"Ground is heavily saturated (", "% vol)."},
		FactorHeavyRecentRain:  {"High recent rainfall (", "mm)."},
		FactorHeavyRainNext24h: {"Heavy precipitation forecast next 24h (", "mm)."},
		FactorWeeklyRain:       {"Significant rainfall predicted over next 7 days (", "mm)."},
		FactorRiverAboveMedian: {"River levels are above historical median (", " m³/s)."},
		FactorIntenseDownpour:  {"Prediction includes periods of intense downpour.", ""},
		FactorDryWeatherFlood:  {"Warning: River levels are high despite clear weather (upstream flow).", ""},
		FactorLowConfidence:    {"Precipitation is predicted but probability is low.", ""},
		FactorStable:           {"Conditions appear stable.", ""},
	},
	Portuguese: {
		FactorSaturatedSoil:    {"Solo fortemente saturado (", "% vol)."},
		FactorHeavyRecentRain:  {"Chuva recente intensa (", "mm)."},
		FactorHeavyRainNext24h: {"Previsão de chuva forte em 24h (", "mm)."},
		FactorWeeklyRain:       {"Chuva significativa prevista para 7 dias (", "mm)."},
		FactorRiverAboveMedian: {"Níveis do rio acima da mediana histórica (", " m³/s)."},
		FactorIntenseDownpour:  {"Previsão inclui períodos de chuva torrencial.", ""},
		FactorDryWeatherFlood:  {"Aviso: Nível do rio alto apesar de tempo limpo (fluxo de montante).", ""},
		FactorLowConfidence:    {"Precipitação prevista mas com baixa probabilidade.", ""},
		FactorStable:           {"Condições parecem estáveis.", ""},
	},
	Spanish: {
		FactorSaturatedSoil:    {"Suelo fuertemente saturado (", "% vol)."},
		FactorHeavyRecentRain:  {"Lluvia reciente intensa (", "mm)."},
		FactorHeavyRainNext24h: {"Previsión de lluvia fuerte en 24h (", "mm)."},
		FactorWeeklyRain:       {"Lluvia significativa prevista para 7 días (", "mm)."},
		FactorRiverAboveMedian: {"Niveles del río por encima de la mediana histórica (", " m³/s)."},
		FactorIntenseDownpour:  {"La previsión incluye períodos de lluvia torrencial.", ""},
		FactorDryWeatherFlood:  {"Aviso: Nivel del río alto a pesar de tiempo despejado (flujo de montaña).", ""},
		FactorLowConfidence:    {"Precipitación prevista pero con baja probabilidad.", ""},
		FactorStable:           {"Las condiciones parecen estables.", ""},
	},
}

// FactorText renders a single factor sentence in lang.
func FactorText(lang Language, f Factor) string {
	table, ok := factorText[lang]
	if !ok {
		table = factorText[Default]
	}
	tpl := table[f.Kind]
	value, quoted := formatFactorValue(f)
	if !quoted {
		return tpl.prefix
	}
	return tpl.prefix + value + tpl.suffix
}

// RenderFactors renders factors in order. The result is never nil.
func RenderFactors(lang Language, factors []Factor) []string {
	out := make([]string, 0, len(factors))
	for _, f := range factors {
		out = append(out, FactorText(lang, f))
	}
	return out
}

// formatFactorValue returns the number quoted by a factor sentence and
// whether the kind quotes one at all.
func formatFactorValue(f Factor) (string, bool) {
	switch f.Kind {
	case FactorSaturatedSoil:
		return strconv.FormatFloat(f.Value*100, 'f', 0, 64), true
	case FactorWeeklyRain:
		return strconv.FormatFloat(f.Value, 'f', 0, 64), true
	case FactorHeavyRecentRain, FactorHeavyRainNext24h, FactorRiverAboveMedian:
		return strconv.FormatFloat(f.Value, 'f', 1, 64), true
	default:
		return "", false
	}
}
