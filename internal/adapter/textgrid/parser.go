// Package textgrid reads Praat TextGrid annotation files as written by the
// Montreal Forced Aligner.
package textgrid

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/seu-repo/pronunciation-mirror/internal/domain"
)

const (
	classIntervalTier = "IntervalTier"
	classTextTier     = "TextTier"
)

// Parser decodes long ("verbose") and short TextGrid text files.
// Point tiers are read but not returned since they carry no intervals.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse reads the TextGrid at path.
func (p *Parser) Parse(path string) ([]domain.Tier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("textgrid: open %s: %w", path, err)
	}
	defer f.Close()

	return p.Decode(f)
}

// Decode reads a TextGrid from r. UTF-8 and BOM-marked UTF-16 input are accepted.
func (p *Parser) Decode(r io.Reader) ([]domain.Tier, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(r, decoder))
	if err != nil {
		return nil, fmt.Errorf("textgrid: decode: %w", err)
	}

	toks, err := tokenize(string(data))
	if err != nil {
		return nil, err
	}

	return readTextGrid(&cursor{toks: toks})
}

func readTextGrid(c *cursor) ([]domain.Tier, error) {
	fileType, err := c.str("file type")
	if err != nil {
		return nil, err
	}
	if fileType != "ooTextFile" {
		return nil, fmt.Errorf("textgrid: unsupported file type %q", fileType)
	}
	class, err := c.str("object class")
	if err != nil {
		return nil, err
	}
	if class != "TextGrid" {
		return nil, fmt.Errorf("textgrid: unexpected object class %q", class)
	}

	// Grid xmin, xmax
	if _, err := c.num("xmin"); err != nil {
		return nil, err
	}
	if _, err := c.num("xmax"); err != nil {
		return nil, err
	}

	exists, err := c.flag("tiers")
	if err != nil {
		return nil, err
	}
	if exists != "exists" {
		return []domain.Tier{}, nil
	}

	size, err := c.count("tier count")
	if err != nil {
		return nil, err
	}

	tiers := make([]domain.Tier, 0, size)
	for i := 0; i < size; i++ {
		tier, keep, err := readTier(c)
		if err != nil {
			return nil, fmt.Errorf("textgrid: tier %d: %w", i+1, err)
		}
		if keep {
			tiers = append(tiers, tier)
		}
	}

	return tiers, nil
}

func readTier(c *cursor) (domain.Tier, bool, error) {
	var tier domain.Tier

	class, err := c.str("tier class")
	if err != nil {
		return tier, false, err
	}
	if tier.Name, err = c.str("tier name"); err != nil {
		return tier, false, err
	}
	if _, err := c.num("tier xmin"); err != nil {
		return tier, false, err
	}
	if _, err := c.num("tier xmax"); err != nil {
		return tier, false, err
	}
	n, err := c.count("item count")
	if err != nil {
		return tier, false, err
	}

	switch class {
	case classIntervalTier:
		tier.Intervals = make([]domain.Interval, 0, n)
		for i := 0; i < n; i++ {
			var iv domain.Interval
			if iv.Start, err = c.num("interval xmin"); err != nil {
				return tier, false, err
			}
			if iv.End, err = c.num("interval xmax"); err != nil {
				return tier, false, err
			}
			if iv.Label, err = c.str("interval text"); err != nil {
				return tier, false, err
			}
			tier.Intervals = append(tier.Intervals, iv)
		}
		return tier, true, nil
	case classTextTier:
		for i := 0; i < n; i++ {
			if _, err := c.num("point time"); err != nil {
				return tier, false, err
			}
			if _, err := c.str("point mark"); err != nil {
				return tier, false, err
			}
		}
		return tier, false, nil
	default:
		return tier, false, fmt.Errorf("unknown tier class %q", class)
	}
}

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenString
	tokenFlag
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

// tokenize keeps only the values of a TextGrid. Keys, "=" signs and bracketed
// indices are dropped, so long and short files produce the same stream.
func tokenize(s string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(s) {
		ch := s[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '"':
			var b strings.Builder
			i++
			closed := false
			for i < len(s) {
				if s[i] == '"' {
					if i+1 < len(s) && s[i+1] == '"' {
						b.WriteByte('"')
						i += 2
						continue
					}
					i++
					closed = true
					break
				}
				b.WriteByte(s[i])
				i++
			}
			if !closed {
				return nil, fmt.Errorf("textgrid: unterminated string")
			}
			toks = append(toks, token{kind: tokenString, text: b.String()})
		case ch == '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("textgrid: unterminated index")
			}
			i += end + 1
		case ch == '<':
			end := strings.IndexByte(s[i:], '>')
			if end < 0 {
				return nil, fmt.Errorf("textgrid: unterminated flag")
			}
			toks = append(toks, token{kind: tokenFlag, text: s[i+1 : i+end]})
			i += end + 1
		case ch == '!':
			end := strings.IndexByte(s[i:], '\n')
			if end < 0 {
				i = len(s)
			} else {
				i += end + 1
			}
		default:
			start := i
			for i < len(s) && !isDelimiter(s[i]) {
				i++
			}
			word := s[start:i]
			if v, err := strconv.ParseFloat(word, 64); err == nil {
				toks = append(toks, token{kind: tokenNumber, text: word, num: v})
			}
		}
	}
	return toks, nil
}

func isDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '"', '[', '<', '!':
		return true
	}
	return false
}

type cursor struct {
	toks []token
	pos  int
}

func (c *cursor) next(what string, kind tokenKind) (token, error) {
	if c.pos >= len(c.toks) {
		return token{}, fmt.Errorf("textgrid: unexpected end of file reading %s", what)
	}
	t := c.toks[c.pos]
	if t.kind != kind {
		return token{}, fmt.Errorf("textgrid: unexpected %q reading %s", t.text, what)
	}
	c.pos++
	return t, nil
}

func (c *cursor) str(what string) (string, error) {
	t, err := c.next(what, tokenString)
	return t.text, err
}

func (c *cursor) num(what string) (float64, error) {
	t, err := c.next(what, tokenNumber)
	return t.num, err
}

func (c *cursor) flag(what string) (string, error) {
	t, err := c.next(what, tokenFlag)
	return t.text, err
}

// count reads a non-negative integer no larger than the number of tokens left.
func (c *cursor) count(what string) (int, error) {
	v, err := c.num(what)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > float64(len(c.toks)-c.pos) || v != float64(int(v)) {
		return 0, fmt.Errorf("textgrid: invalid %s %v", what, v)
	}
	return int(v), nil
}
