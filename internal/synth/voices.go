package synth

import "strings"

// catalog lists well-known Google Cloud voices used when resolving a gender
// preference without calling the voices API. Wavenet entries are the premium
// tier; Standard entries are the fallback.
var catalog = []Voice{
	{Name: "pt-BR-Wavenet-A", LanguageCodes: []string{"pt-BR"}, Gender: GenderFemale, SampleRateHz: 24000, Premium: true},
	{Name: "pt-BR-Wavenet-B", LanguageCodes: []string{"pt-BR"}, Gender: GenderMale, SampleRateHz: 24000, Premium: true},
	{Name: "pt-BR-Wavenet-C", LanguageCodes: []string{"pt-BR"}, Gender: GenderFemale, SampleRateHz: 24000, Premium: true},
	{Name: "pt-BR-Standard-A", LanguageCodes: []string{"pt-BR"}, Gender: GenderFemale, SampleRateHz: 24000},
	{Name: "pt-BR-Standard-B", LanguageCodes: []string{"pt-BR"}, Gender: GenderMale, SampleRateHz: 24000},
	{Name: "en-US-Wavenet-C", LanguageCodes: []string{"en-US"}, Gender: GenderFemale, SampleRateHz: 24000, Premium: true},
	{Name: "en-US-Wavenet-D", LanguageCodes: []string{"en-US"}, Gender: GenderMale, SampleRateHz: 24000, Premium: true},
	{Name: "en-US-Wavenet-F", LanguageCodes: []string{"en-US"}, Gender: GenderFemale, SampleRateHz: 24000, Premium: true},
	{Name: "en-US-Standard-C", LanguageCodes: []string{"en-US"}, Gender: GenderFemale, SampleRateHz: 24000},
	{Name: "en-US-Standard-D", LanguageCodes: []string{"en-US"}, Gender: GenderMale, SampleRateHz: 24000},
}

// KnownVoices returns the catalog entries for a language.
func KnownVoices(language string) []Voice {
	var voices []Voice
	for _, voice := range catalog {
		for _, code := range voice.LanguageCodes {
			if strings.EqualFold(code, language) {
				voices = append(voices, voice)
				break
			}
		}
	}
	return voices
}

// PickVoice resolves a voice selector to a concrete voice name. A selector
// containing a dash is treated as an explicit voice name and returned as-is.
// Otherwise the selector is a gender and the catalog is searched, preferring
// the premium tier when requested. An empty result means the catalog has no
// voice for the language; callers then let the provider pick its default.
func PickVoice(language, selector string, premium bool) string {
	selector = strings.TrimSpace(selector)
	if strings.Contains(selector, "-") {
		return selector
	}

	gender := Gender(strings.ToUpper(selector))
	candidates := KnownVoices(language)
	if premium {
		for _, voice := range candidates {
			if voice.Premium && voice.Gender == gender {
				return voice.Name
			}
		}
	}
	for _, voice := range candidates {
		if !voice.Premium && voice.Gender == gender {
			return voice.Name
		}
	}
	for _, voice := range candidates {
		if voice.Gender == gender {
			return voice.Name
		}
	}
	return ""
}
