package literal

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/viewmig/pkg/domain"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokString
	tokInt
	tokFloat
	tokIdent
	tokRef
	tokPunct
)

type token struct {
	kind tokenKind
	text string // raw source text, or the punctuation character
	str  string // decoded value of a string token
	pos  int
}

// comparators whose right-hand side may be a dynamic reference.
var comparators = map[string]bool{
	"=": true, "!=": true, ">": true, ">=": true, "<": true, "<=": true,
	"=?": true, "=like": true, "like": true, "not like": true,
	"ilike": true, "not ilike": true, "=ilike": true,
	"in": true, "not in": true, "child_of": true, "parent_of": true,
}

func errorAt(pos int, format string, args ...any) error {
	return fmt.Errorf("%w: offset %d: %s", domain.ErrMalformedLiteral, pos, fmt.Sprintf(format, args...))
}

type lexer struct {
	src  string
	pos  int
	refs bool
}

func tokenize(src string, refs bool) ([]token, error) {
	l := &lexer{src: src, refs: refs}
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			break
		}
	}
	if refs {
		classifyRefs(toks)
	}
	return toks, nil
}

// classifyRefs marks bare identifiers that sit in the value slot of a leaf,
// i.e. right after a comparator string and a comma, and right before the
// closing bracket of the leaf.
func classifyRefs(toks []token) {
	for i := 2; i+1 < len(toks); i++ {
		t := toks[i]
		if t.kind != tokIdent || isKeyword(t.text) {
			continue
		}
		if !toks[i-1].is(",") || toks[i-2].kind != tokString || !comparators[toks[i-2].str] {
			continue
		}
		if toks[i+1].is(")") || toks[i+1].is("]") {
			toks[i].kind = tokRef
		}
	}
}

func isKeyword(s string) bool {
	return s == "True" || s == "False" || s == "None"
}

func (t token) is(punct string) bool {
	return t.kind == tokPunct && t.text == punct
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}
	start := l.pos
	c := l.src[l.pos]
	switch {
	case strings.IndexByte("{}[](),:+-", c) >= 0:
		l.pos++
		return token{kind: tokPunct, text: string(c), pos: start}, nil
	case c == '\'' || c == '"':
		return l.lexString(start, false)
	case c == '%' && l.refs:
		return l.lexPlaceholder(start)
	case isDigit(c) || (c == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
		return l.lexNumber(start)
	case isIdentStart(c):
		for l.pos < len(l.src) && (isIdentPart(l.src[l.pos]) || l.src[l.pos] == '.') {
			l.pos++
		}
		word := l.src[start:l.pos]
		if l.pos < len(l.src) && (l.src[l.pos] == '\'' || l.src[l.pos] == '"') && isStringPrefix(word) {
			return l.lexString(start, strings.ContainsAny(word, "rR"))
		}
		return token{kind: tokIdent, text: word, pos: start}, nil
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return token{}, errorAt(start, "unexpected character %q", r)
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch c := l.src[l.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			l.pos++
		case c == '\\' && strings.HasPrefix(l.src[l.pos:], "\\\n"):
			l.pos += 2
		case c == '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

// lexPlaceholder reads an xmlid placeholder such as %(base.group_user)d.
func (l *lexer) lexPlaceholder(start int) (token, error) {
	i := start + 1
	if i >= len(l.src) || l.src[i] != '(' {
		return token{}, errorAt(start, "unexpected character '%%'")
	}
	i++
	nameStart := i
	for i < len(l.src) && (isIdentPart(l.src[i]) || l.src[i] == '.') {
		i++
	}
	if i == nameStart || i+1 >= len(l.src) || l.src[i] != ')' || (l.src[i+1] != 'd' && l.src[i+1] != 's') {
		return token{}, errorAt(start, "malformed placeholder")
	}
	l.pos = i + 2
	return token{kind: tokRef, text: l.src[start:l.pos], pos: start}, nil
}

func (l *lexer) lexNumber(start int) (token, error) {
	src := l.src
	i := start
	kind := tokInt
	if src[i] == '0' && i+1 < len(src) && strings.IndexByte("xXoObB", src[i+1]) >= 0 {
		i += 2
		for i < len(src) && (isHexDigit(src[i]) || src[i] == '_') {
			i++
		}
	} else {
		for i < len(src) && (isDigit(src[i]) || src[i] == '_') {
			i++
		}
		if i < len(src) && src[i] == '.' {
			kind = tokFloat
			i++
			for i < len(src) && (isDigit(src[i]) || src[i] == '_') {
				i++
			}
		}
		if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
			j := i + 1
			if j < len(src) && (src[j] == '+' || src[j] == '-') {
				j++
			}
			if j < len(src) && isDigit(src[j]) {
				kind = tokFloat
				i = j
				for i < len(src) && isDigit(src[i]) {
					i++
				}
			}
		}
	}
	if i < len(src) && isIdentStart(src[i]) {
		return token{}, errorAt(start, "invalid number %q", src[start:i+1])
	}
	l.pos = i
	return token{kind: kind, text: src[start:i], pos: start}, nil
}

func (l *lexer) lexString(start int, raw bool) (token, error) {
	for l.src[l.pos] != '\'' && l.src[l.pos] != '"' {
		l.pos++
	}
	quote := l.src[l.pos : l.pos+1]
	if strings.HasPrefix(l.src[l.pos:], strings.Repeat(quote, 3)) {
		quote = strings.Repeat(quote, 3)
	}
	l.pos += len(quote)

	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return token{}, errorAt(start, "unterminated string")
		}
		if strings.HasPrefix(l.src[l.pos:], quote) {
			l.pos += len(quote)
			return token{kind: tokString, text: l.src[start:l.pos], str: b.String(), pos: start}, nil
		}
		c := l.src[l.pos]
		switch {
		case c == '\n' && len(quote) == 1:
			return token{}, errorAt(start, "unterminated string")
		case c == '\\' && raw:
			b.WriteByte(c)
			if l.pos+1 < len(l.src) {
				b.WriteByte(l.src[l.pos+1])
			}
			l.pos += 2
		case c == '\\':
			if err := l.escape(&b); err != nil {
				return token{}, err
			}
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
}

var simpleEscapes = map[byte]string{
	'\\': "\\", '\'': "'", '"': "\"", 'a': "\a", 'b': "\b", 'f': "\f",
	'n': "\n", 'r': "\r", 't': "\t", 'v': "\v", '\n': "",
}

func (l *lexer) escape(b *strings.Builder) error {
	start := l.pos
	if l.pos+1 >= len(l.src) {
		return errorAt(start, "unterminated string")
	}
	c := l.src[l.pos+1]
	l.pos += 2
	if s, ok := simpleEscapes[c]; ok {
		b.WriteString(s)
		return nil
	}
	width := 0
	switch c {
	case 'x':
		width = 2
	case 'u':
		width = 4
	case 'U':
		width = 8
	}
	if width > 0 {
		if l.pos+width > len(l.src) {
			return errorAt(start, "truncated \\%c escape", c)
		}
		n, err := strconv.ParseUint(l.src[l.pos:l.pos+width], 16, 32)
		if err != nil || !utf8.ValidRune(rune(n)) {
			return errorAt(start, "invalid \\%c escape", c)
		}
		b.WriteRune(rune(n))
		l.pos += width
		return nil
	}
	if c >= '0' && c <= '7' {
		end := l.pos
		for end < len(l.src) && end < l.pos+2 && l.src[end] >= '0' && l.src[end] <= '7' {
			end++
		}
		n, _ := strconv.ParseUint(l.src[l.pos-1:end], 8, 32)
		b.WriteRune(rune(n))
		l.pos = end
		return nil
	}
	// Unknown escapes keep their backslash.
	b.WriteByte('\\')
	b.WriteByte(c)
	return nil
}

func isStringPrefix(word string) bool {
	switch strings.ToLower(word) {
	case "r", "u", "b", "br", "rb":
		return true
	}
	return false
}

func isDigit(c byte) bool    { return c >= '0' && c <= '9' }
func isHexDigit(c byte) bool { return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') }
func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
