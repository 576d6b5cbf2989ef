package alignment

import (
	"strings"

	"github.com/seu-repo/pronunciation-mirror/internal/domain"
)

// IsWordTier matches tiers such as "words", "Words" or "word-tier".
func IsWordTier(name string) bool {
	return strings.Contains(strings.ToLower(name), "word")
}

// IsPhoneTier matches tiers such as "phones", "Phones" or "phoneme-info".
func IsPhoneTier(name string) bool {
	return strings.Contains(strings.ToLower(name), "phone")
}

// ExtractBoundaries collects labeled intervals from word and phone tiers in
// file order. Intervals whose label is blank (silences) are dropped; labels
// are otherwise kept as written.
func ExtractBoundaries(tiers []domain.Tier) *domain.AlignmentResult {
	result := domain.NewAlignmentResult()

	for _, tier := range tiers {
		word, phone := IsWordTier(tier.Name), IsPhoneTier(tier.Name)
		if !word && !phone {
			continue
		}
		for _, iv := range tier.Intervals {
			if strings.TrimSpace(iv.Label) == "" {
				continue
			}
			if word {
				result.Words = append(result.Words, domain.WordBoundary{Word: iv.Label, Start: iv.Start, End: iv.End})
			}
			if phone {
				result.Phones = append(result.Phones, domain.PhoneBoundary{Phone: iv.Label, Start: iv.Start, End: iv.End})
			}
		}
	}

	return result
}
