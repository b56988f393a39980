package locale

// Band keys used to address the recommendation tables. They match the
// lower-cased risk level names.
const (
	BandLow      = "low"
	BandModerate = "moderate"
	BandHigh     = "high"
	BandCritical = "critical"
)

var recommendations = map[Language]map[string][]string{
	English: {
		BandLow: {
			"Monitor local weather updates.",
			"Ensure gutters and drains are clear of debris.",
			"No immediate flood preparation required.",
		},
		BandModerate: {
			"Stay informed about changing weather conditions.",
			"Avoid low-lying areas if heavy rain starts.",
			"Check emergency kits and flashlights.",
			"Move valuable outdoor items to covered areas.",
		},
		BandHigh: {
			"Prepare for potential water accumulation.",
			"Move vehicles to higher ground.",
			"Protect entrances with sandbags if applicable.",
			"Charge mobile devices and battery packs.",
			"Review your evacuation plan.",
		},
		BandCritical: {
			"IMMEDIATE ACTION: Follow all local authority orders.",
			"Evacuate immediately if instructed.",
			"Do not walk or drive through flood waters.",
			"Move essential items and pets to the highest floor.",
			"Turn off gas, electricity, and water if water enters.",
		},
	},
	Portuguese: {
		BandLow: {
			"Acompanhe as atualizações meteorológicas locais.",
			"Certifique-se que calhas e ralos estão limpos.",
			"Nenhuma preparação imediata necessária.",
		},
		BandModerate: {
			"Fique atento às mudanças nas condições do tempo.",
			"Evite áreas baixas se a chuva forte começar.",
			"Verifique kits de emergência e lanternas.",
			"Mova itens externos valiosos para áreas cobertas.",
		},
		BandHigh: {
			"Prepare-se para possível acúmulo de água.",
			"Mova veículos para terrenos mais altos.",
			"Proteja entradas com sacos de areia, se aplicável.",
			"Carregue dispositivos móveis e baterias.",
			"Revise seu plano de evacuação.",
		},
		BandCritical: {
			"AÇÃO IMEDIATA: Siga as ordens das autoridades locais.",
			"Evacue imediatamente se instruído.",
			"Não caminhe ou dirija em áreas alagadas.",
			"Mova itens essenciais e animais para o andar mais alto.",
			"Desligue gás, eletricidade e água se a água entrar.",
		},
	},
	Spanish: {
		BandLow: {
			"Siga las actualizaciones meteorológicas locales.",
			"Asegúrese de que canaletas y desagües estén limpios.",
			"No se requiere preparación inmediata.",
		},
		BandModerate: {
			"Manténgase informado sobre los cambios en el clima.",
			"Evite áreas bajas si comienza a llover fuerte.",
			"Verifique kits de emergencia y linternas.",
			"Mueva objetos de valor exteriores a áreas cubiertas.",
		},
		BandHigh: {
			"Prepárese para posible acumulación de agua.",
			"Mueva vehículos a terrenos más altos.",
			"Proteja entradas con sacos de arena si es posible.",
			"Cargue dispositivos móviles y baterías.",
			"Revise su plan de evacuación.",
		},
		BandCritical: {
			"ACCIÓN INMEDIATA: Siga las órdenes de las autoridades.",
			"Evacue inmediatamente si se le indica.",
			"No camine ni conduzca por áreas inundadas.",
			"Mueva artículos esenciales y mascotas al piso más alto.",
			"Cierre gas, electricidad y agua si entra agua.",
		},
	},
}

// Recommendations returns a copy of the recommendation list for a band in
// lang. Unknown bands return an empty, non-nil slice.
func Recommendations(lang Language, band string) []string {
	table, ok := recommendations[lang]
	if !ok {
		table = recommendations[Default]
	}
	src := table[band]
	out := make([]string, len(src))
	copy(out, src)
	return out
}
