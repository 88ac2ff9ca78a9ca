package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"badger/diag"
)

type Lexer struct {
	input  string
	pos    int
	lines  []int
	strict bool
	err    error
}

func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize scans the whole source and returns the token stream together with
// the newline offset table. Unrecognized characters are dropped.
func Tokenize(input string) ([]Token, []int) {
	l := New(input)
	toks := l.All()
	return toks, l.Lines()
}

// TokenizeStrict is Tokenize, except that the first unrecognized character is
// reported as an error instead of being skipped.
func TokenizeStrict(input string) ([]Token, []int, error) {
	l := New(input)
	l.strict = true
	toks := l.All()
	if l.err != nil {
		return nil, l.Lines(), l.err
	}
	return toks, l.Lines(), nil
}

// All drains the lexer. The last token is always EOF at len(input).
func (l *Lexer) All() []Token {
	toks := []Token{}
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

// Lines returns the newline offsets recorded so far.
func (l *Lexer) Lines() []int { return l.lines }

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *Lexer) peekAt(off int) byte {
	if l.pos+off >= len(l.input) {
		return 0
	}
	return l.input[l.pos+off]
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.input) }

func (l *Lexer) advance() rune {
	if l.atEnd() {
		return 0
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	if r == '\n' {
		l.lines = append(l.lines, l.pos)
	}
	l.pos += size
	return r
}

func (l *Lexer) NextToken() Token {
	for !l.atEnd() {
		start := l.pos
		ch := l.peek()

		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
			continue

		case ch == '#':
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
			if l.atEnd() {
				l.lines = append(l.lines, l.pos)
			} else {
				l.advance()
			}
			continue

		case ch == '"':
			return l.scanString()

		case isDigit(ch):
			return l.scanNumber()

		case unicode.IsLetter(ch) || ch == '_':
			for r := l.peek(); unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'; r = l.peek() {
				l.advance()
			}
			word := l.input[start:l.pos]
			tt := LookupIdent(word)
			return Token{Type: tt, Lexeme: word, Offset: start}
		}

		if tok, ok := l.scanOperator(); ok {
			return tok
		}

		l.advance()
		if l.strict && l.err == nil {
			l.err = diag.Errorf(start, l.lines, "Unexpected character %q", ch)
		}
	}
	return Token{Type: EOF, Offset: len(l.input)}
}

// scanString consumes a double-quoted literal. Newlines inside the literal are
// recorded; an unterminated literal runs to the end of input.
func (l *Lexer) scanString() Token {
	start := l.pos
	l.advance()
	var b strings.Builder
	for !l.atEnd() {
		c := l.advance()
		if c == '"' {
			break
		}
		if c == '\\' {
			if l.atEnd() {
				break
			}
			esc := l.advance()
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteRune(esc)
			}
			continue
		}
		b.WriteRune(c)
	}
	return Token{Type: STRING, Lexeme: b.String(), Offset: start}
}

func (l *Lexer) scanNumber() Token {
	start := l.pos
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	lex := l.input[start:l.pos]
	n, err := strconv.ParseFloat(strings.TrimSuffix(lex, "."), 64)
	if err != nil {
		// digit runs always parse; only range overflow lands here
		n = 0
		if l.strict && l.err == nil {
			l.err = diag.Errorf(start, l.lines, "Invalid number %q", lex)
		}
	}
	return Token{Type: NUMBER, Lexeme: lex, Number: n, Offset: start}
}

var singles = map[byte]TokenType{
	';': SEMI,
	':': COLON,
	'.': PERIOD,
	',': COMMA,
	'?': QUERY,
	'@': AT,
	'(': LPAREN,
	')': RPAREN,
	'[': LBRACKET,
	']': RBRACKET,
	'{': LBRACE,
	'}': RBRACE,
	'+': PLUS,
	'-': MINUS,
	'*': STAR,
	'/': SLASH,
	'%': PERCENT,
	'&': AND,
	'|': OR,
	'>': GT,
	'<': LT,
	'!': BANG,
	'=': ASSIGN,
}

var doubles = map[string]TokenType{
	">=": GTE,
	"<=": LTE,
	"==": EQ,
	"!=": NEQ,
	"&&": AND,
	"||": OR,
}

func (l *Lexer) scanOperator() (Token, bool) {
	start := l.pos
	c := l.peekAt(0)
	if tt, ok := doubles[string([]byte{c, l.peekAt(1)})]; ok {
		l.pos += 2
		return Token{Type: tt, Lexeme: l.input[start:l.pos], Offset: start}, true
	}
	if tt, ok := singles[c]; ok {
		l.pos++
		return Token{Type: tt, Lexeme: string(c), Offset: start}, true
	}
	return Token{}, false
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Dump renders a token stream one token per line, with line numbers.
func Dump(toks []Token, lines []int) string {
	var b strings.Builder
	for _, t := range toks {
		fmt.Fprintf(&b, "%4d  %s\n", diag.LineOf(t.Offset, lines), t)
	}
	return b.String()
}
