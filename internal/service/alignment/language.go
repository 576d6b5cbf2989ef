package alignment

import (
	"strings"

	"github.com/seu-repo/pronunciation-mirror/internal/domain"
)

const DefaultLanguage = "swedish"

// knownProfiles lists languages whose resource names break the "<tag>_mfa" pattern.
var knownProfiles = map[string]domain.LanguageProfile{
	"swedish": {Language: "swedish", Dictionary: "swedish_mfa", AcousticModel: "swedish_mfa"},
	"english": {Language: "english", Dictionary: "english_us_arpa", AcousticModel: "english_us_mfa"},
}

// ResolveLanguage maps a language tag to the dictionary and acoustic model
// names the aligner should load. Unknown tags fall back to "<tag>_mfa"; the
// aligner reports an error if those resources are not installed.
func ResolveLanguage(tag string) domain.LanguageProfile {
	lang := normalizeLanguage(tag, DefaultLanguage)
	if p, ok := knownProfiles[lang]; ok {
		return p
	}
	return domain.LanguageProfile{
		Language:      lang,
		Dictionary:    lang + "_mfa",
		AcousticModel: lang + "_mfa",
	}
}

func normalizeLanguage(tag, fallback string) string {
	lang := strings.ToLower(strings.TrimSpace(tag))
	if lang == "" {
		return strings.ToLower(strings.TrimSpace(fallback))
	}
	return lang
}
