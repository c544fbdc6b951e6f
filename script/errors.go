package script

import "fmt"

// LexicalError is the taxonomy of problems the lexer can find while
// slicing a source string into Tokens.
type LexicalError struct {
	// NumericError holds the strconv error when a Number token's text
	// fails to parse as a float32, which the regex that recognized it
	// as numeric-shaped should make rare.
	NumericError error
}

func (e *LexicalError) Error() string {
	if e.NumericError != nil {
		return fmt.Sprintf("malformed numeric literal: %v", e.NumericError)
	}
	return "unrecognized character"
}

// ParseError is the taxonomy of problems the parser can find in an
// otherwise well-tokenized source.
type ParseError struct {
	UnexpectedEOF bool

	Token    Token
	Expected string
	Hint     string

	Lex *LexicalError
}

func (e *ParseError) Error() string {
	switch {
	case e.UnexpectedEOF:
		return "unexpected end of input"
	case e.Lex != nil:
		return e.Lex.Error()
	default:
		msg := fmt.Sprintf("expected %s, found %s", e.Expected, e.Token.String())
		if e.Hint != "" {
			msg += " (" + e.Hint + ")"
		}
		return msg
	}
}

// SpannedError pairs an error with the source Location it was raised
// at, so a Report can point a caller back at the offending text.
type SpannedError struct {
	Err error
	Loc Location
}

func (e *SpannedError) Error() string { return e.Err.Error() }
func (e *SpannedError) Unwrap() error { return e.Err }
