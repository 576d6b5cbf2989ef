package alignment

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/seu-repo/pronunciation-mirror/internal/domain"
)

func TestResolveLanguage(t *testing.T) {
	tests := []struct {
		tag       string
		wantLang  string
		wantDict  string
		wantModel string
	}{
		{"swedish", "swedish", "swedish_mfa", "swedish_mfa"},
		{"", "swedish", "swedish_mfa", "swedish_mfa"},
		{"  Swedish ", "swedish", "swedish_mfa", "swedish_mfa"},
		{"english", "english", "english_us_arpa", "english_us_mfa"},
		{"ENGLISH", "english", "english_us_arpa", "english_us_mfa"},
		{"german", "german", "german_mfa", "german_mfa"},
		{"Klingon", "klingon", "klingon_mfa", "klingon_mfa"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			p := ResolveLanguage(tt.tag)
			if p.Language != tt.wantLang || p.Dictionary != tt.wantDict || p.AcousticModel != tt.wantModel {
				t.Errorf("ResolveLanguage(%q) = %+v, want (%s, %s, %s)", tt.tag, p, tt.wantLang, tt.wantDict, tt.wantModel)
			}
		})
	}
}

func TestTierMatching(t *testing.T) {
	tests := []struct {
		name      string
		wantWord  bool
		wantPhone bool
	}{
		{"words", true, false},
		{"Words", true, false},
		{"word-tier", true, false},
		{"phones", false, true},
		{"Phones", false, true},
		{"phoneme-info", false, true},
		{"speaker", false, false},
		{"speaker - words", true, false},
		{"wordphone", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWordTier(tt.name); got != tt.wantWord {
				t.Errorf("IsWordTier(%q) = %v, want %v", tt.name, got, tt.wantWord)
			}
			if got := IsPhoneTier(tt.name); got != tt.wantPhone {
				t.Errorf("IsPhoneTier(%q) = %v, want %v", tt.name, got, tt.wantPhone)
			}
		})
	}
}

func TestExtractBoundaries_SkipsBlankLabels(t *testing.T) {
	tiers := []domain.Tier{
		{Name: "words", Intervals: []domain.Interval{
			{Label: "", Start: 0, End: 0.2},
			{Label: "cat", Start: 0.0, End: 0.5},
			{Label: "  \t", Start: 0.5, End: 0.7},
		}},
	}

	result := ExtractBoundaries(tiers)

	if len(result.Words) != 1 {
		t.Fatalf("expected exactly 1 word, got %d", len(result.Words))
	}
	want := domain.WordBoundary{Word: "cat", Start: 0.0, End: 0.5}
	if result.Words[0] != want {
		t.Errorf("expected %+v, got %+v", want, result.Words[0])
	}
	if len(result.Phones) != 0 {
		t.Errorf("expected no phones, got %d", len(result.Phones))
	}
}

func TestExtractBoundaries_OrderAndTiers(t *testing.T) {
	tiers := []domain.Tier{
		{Name: "speaker", Intervals: []domain.Interval{{Label: "anna", Start: 0, End: 2}}},
		{Name: "Phones", Intervals: []domain.Interval{
			{Label: "k", Start: 0.1, End: 0.2},
			{Label: "a", Start: 0.2, End: 0.3},
		}},
		{Name: "Words", Intervals: []domain.Interval{
			{Label: "world", Start: 0.6, End: 1.0},
			{Label: "hello", Start: 0.1, End: 0.6},
		}},
		{Name: "phones-2", Intervals: []domain.Interval{{Label: "t", Start: 0.3, End: 0.4}}},
	}

	result := ExtractBoundaries(tiers)

	// File order is kept, no re-sorting
	if len(result.Words) != 2 || result.Words[0].Word != "world" || result.Words[1].Word != "hello" {
		t.Errorf("unexpected words %+v", result.Words)
	}
	gotPhones := ""
	for _, p := range result.Phones {
		gotPhones += p.Phone
	}
	if gotPhones != "kat" {
		t.Errorf("expected phones in tier order 'kat', got %q", gotPhones)
	}
}

func TestExtractBoundaries_LabelKeptAsWritten(t *testing.T) {
	tiers := []domain.Tier{
		{Name: "words", Intervals: []domain.Interval{{Label: " hej ", Start: 0, End: 1}}},
	}

	result := ExtractBoundaries(tiers)
	if len(result.Words) != 1 || result.Words[0].Word != " hej " {
		t.Errorf("expected label kept as written, got %+v", result.Words)
	}
}

func TestExtractBoundaries_EmptyEncodesAsArrays(t *testing.T) {
	body, err := json.Marshal(ExtractBoundaries(nil))
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if string(body) != `{"words":[],"phones":[]}` {
		t.Errorf("unexpected JSON %s", body)
	}
}

func TestExtractBoundaries_Deterministic(t *testing.T) {
	tiers := []domain.Tier{
		{Name: "words", Intervals: []domain.Interval{{Label: "hej", Start: 0.12, End: 0.48}}},
		{Name: "phones", Intervals: []domain.Interval{{Label: "h", Start: 0.12, End: 0.2}}},
	}

	first, _ := json.Marshal(ExtractBoundaries(tiers))
	for i := 0; i < 5; i++ {
		again, _ := json.Marshal(ExtractBoundaries(tiers))
		if !bytes.Equal(first, again) {
			t.Fatalf("run %d produced different JSON: %s vs %s", i, first, again)
		}
	}
}
