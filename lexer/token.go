package lexer

import "fmt"

type TokenType string

const (
	EOF  TokenType = "EOF"
	SEMI TokenType = "SEMI"

	IDENT  TokenType = "IDENT"
	NUMBER TokenType = "NUMBER"
	STRING TokenType = "STRING"

	LPAREN   TokenType = "LPAREN"
	RPAREN   TokenType = "RPAREN"
	LBRACKET TokenType = "LBRACKET"
	RBRACKET TokenType = "RBRACKET"
	LBRACE   TokenType = "LBRACE"
	RBRACE   TokenType = "RBRACE"

	COLON  TokenType = "COLON"
	PERIOD TokenType = "PERIOD"
	COMMA  TokenType = "COMMA"
	QUERY  TokenType = "QUERY"
	AT     TokenType = "AT"

	PLUS    TokenType = "PLUS"
	MINUS   TokenType = "MINUS"
	STAR    TokenType = "STAR"
	SLASH   TokenType = "SLASH"
	PERCENT TokenType = "PERCENT"

	GT  TokenType = "GT"
	GTE TokenType = "GTE"
	LT  TokenType = "LT"
	LTE TokenType = "LTE"
	EQ  TokenType = "EQ"
	NEQ TokenType = "NEQ"

	AND TokenType = "AND"
	OR  TokenType = "OR"

	BANG   TokenType = "BANG"
	ASSIGN TokenType = "ASSIGN"

	IF       TokenType = "IF"
	ELSE     TokenType = "ELSE"
	WHILE    TokenType = "WHILE"
	FXN      TokenType = "FXN"
	RETURN   TokenType = "RETURN"
	NUM      TokenType = "NUM"
	STR      TokenType = "STR"
	BOOL     TokenType = "BOOL"
	VAR      TokenType = "VAR"
	TRUE     TokenType = "TRUE"
	FALSE    TokenType = "FALSE"
	NULL     TokenType = "NULL"
	IMPORT   TokenType = "IMPORT"
	EXPORT   TokenType = "EXPORT"
	BREAK    TokenType = "BREAK"
	CONTINUE TokenType = "CONTINUE"
)

// Token is a single lexeme. Offset is the byte offset of its first character.
type Token struct {
	Type   TokenType
	Lexeme string
	Number float64
	Offset int
}

func (t Token) String() string {
	switch t.Type {
	case STRING:
		return fmt.Sprintf("%s(%q) @ %d", t.Type, t.Lexeme, t.Offset)
	case IDENT, NUMBER:
		return fmt.Sprintf("%s(%s) @ %d", t.Type, t.Lexeme, t.Offset)
	default:
		return fmt.Sprintf("%s @ %d", t.Type, t.Offset)
	}
}

// IsTypeKeyword reports whether t opens a variable declaration.
func (t TokenType) IsTypeKeyword() bool {
	return t == NUM || t == STR || t == BOOL || t == VAR
}

var keywords = map[string]TokenType{
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"fxn":      FXN,
	"return":   RETURN,
	"num":      NUM,
	"str":      STR,
	"bool":     BOOL,
	"var":      VAR,
	"true":     TRUE,
	"false":    FALSE,
	"null":     NULL,
	"import":   IMPORT,
	"export":   EXPORT,
	"break":    BREAK,
	"continue": CONTINUE,
	"and":      AND,
	"or":       OR,
}

func LookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return IDENT
}
