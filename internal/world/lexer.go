package world

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokLifetime
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	pos  int // byte offset in the source
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokLifetime:
		return "lifetime '" + t.text
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

// two-byte punctuators are matched before single bytes
var punct2 = []string{"::", "->"}

const punct1 = "<>()[]{},;&*=:!+"

// lex splits a type expression into tokens. Identifiers are NFC-normalized
// so that visually identical names written in different normal forms match.
func lex(src string) ([]token, error) {
	var out []token
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '_' || unicode.IsLetter(r):
			start := i
			for i < len(src) {
				r, size = utf8.DecodeRuneInString(src[i:])
				if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.Is(unicode.Mn, r) {
					break
				}
				i += size
			}
			out = append(out, token{kind: tokIdent, text: norm.NFC.String(src[start:i]), pos: start})
		case r >= '0' && r <= '9':
			start := i
			for i < len(src) && src[i] >= '0' && src[i] <= '9' {
				i++
			}
			out = append(out, token{kind: tokInt, text: src[start:i], pos: start})
		case r == '\'':
			start := i
			i++
			for i < len(src) {
				r, size = utf8.DecodeRuneInString(src[i:])
				if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
					break
				}
				i += size
			}
			if i == start+1 {
				return nil, fmt.Errorf("offset %d: empty lifetime", start)
			}
			out = append(out, token{kind: tokLifetime, text: src[start+1 : i], pos: start})
		default:
			matched := false
			for _, p := range punct2 {
				if len(src)-i >= len(p) && src[i:i+len(p)] == p {
					out = append(out, token{kind: tokPunct, text: p, pos: i})
					i += len(p)
					matched = true
					break
				}
			}
			if matched {
				continue
			}
			if r < utf8.RuneSelf && strings.IndexByte(punct1, byte(r)) >= 0 {
				out = append(out, token{kind: tokPunct, text: string(r), pos: i})
				i++
				continue
			}
			return nil, fmt.Errorf("offset %d: unexpected character %q", i, r)
		}
	}
	return append(out, token{kind: tokEOF, pos: len(src)}), nil
}
