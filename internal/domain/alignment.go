package domain

// AlignmentRequest is one uploaded recording plus its transcript.
type AlignmentRequest struct {
	RequestID     string
	AudioFilename string
	Audio         []byte
	Transcript    string
	Language      string
}

// LanguageProfile names the pretrained resources the aligner loads for a language.
type LanguageProfile struct {
	Language      string `json:"language"`
	Dictionary    string `json:"dictionary"`
	AcousticModel string `json:"acoustic_model"`
}

type WordBoundary struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type PhoneBoundary struct {
	Phone string  `json:"phone"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// AlignmentResult holds boundaries in the order they appear in the annotation file.
type AlignmentResult struct {
	Words  []WordBoundary  `json:"words"`
	Phones []PhoneBoundary `json:"phones"`
}

// NewAlignmentResult returns a result whose sequences encode as [] rather than null.
func NewAlignmentResult() *AlignmentResult {
	return &AlignmentResult{
		Words:  make([]WordBoundary, 0),
		Phones: make([]PhoneBoundary, 0),
	}
}

// Tier is a named track of labeled intervals from an annotation file.
type Tier struct {
	Name      string
	Intervals []Interval
}

type Interval struct {
	Label string
	Start float64
	End   float64
}
