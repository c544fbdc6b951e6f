package script

import (
	"math"
	"unicode"

	"github.com/dialogrules/respengine"
	"github.com/dialogrules/respengine/intern"
)

// nextDown32 returns the greatest float32 strictly less than f,
// mirroring Rust's f32::next_down via next-up on the negation.
func nextDown32(f float32) float32 {
	return -nextUp32(-f)
}

func nextUp32(f float32) float32 {
	if f != f {
		return f
	}
	bits := math.Float32bits(f)
	const posInfBits = 0x7F800000
	if bits == posInfBits {
		return f
	}
	switch {
	case bits == 0x80000000:
		bits = 1
	case bits&0x80000000 == 0:
		bits++
	default:
		bits--
	}
	return math.Float32frombits(bits)
}

// Parser drives a Lexer through the grammar's recursive-descent rules,
// producing one Definition per top-level `(criterion ...)`, `(rule
// ...)`, or `(response ...)` form. Source is left blank on the spans it
// produces; a caller compiling several named sources (see Compile)
// fills it in afterward.
type Parser struct {
	lex *Lexer
}

// NewParser returns a Parser reading definitions out of src.
func NewParser(src string) *Parser {
	return &Parser{lex: NewLexer(src)}
}

func (p *Parser) loc(start, end int, line, col int) Location {
	return Location{Start: start, End: end, Line: line, Column: col}
}

func (p *Parser) parseToken() (Token, *SpannedError) {
	tok, err := p.lex.Next()
	if err != nil {
		return Token{}, err
	}
	if tok.Kind == TokenEOF {
		return Token{}, &SpannedError{
			Err: &ParseError{UnexpectedEOF: true},
			Loc: p.loc(tok.Start, tok.End, tok.Line, tok.Column),
		}
	}
	return tok, nil
}

func unexpected(tok Token, expected, hint string) *ParseError {
	return &ParseError{Token: tok, Expected: expected, Hint: hint}
}

func spanned(err error, tok Token) *SpannedError {
	return &SpannedError{Err: err, Loc: Location{Start: tok.Start, End: tok.End, Line: tok.Line, Column: tok.Column}}
}

func expectSymbol(tok Token) (string, *SpannedError) {
	if tok.Kind == TokenSymbol {
		return tok.Symbol, nil
	}
	return "", spanned(unexpected(tok, "a symbol", ""), tok)
}

func expectNumber(tok Token) (float32, *SpannedError) {
	if tok.Kind == TokenNumber {
		return tok.Number, nil
	}
	return 0, spanned(unexpected(tok, "a number literal", ""), tok)
}

func expectString(tok Token) (string, *SpannedError) {
	if tok.Kind == TokenString {
		return tok.String, nil
	}
	return "", spanned(unexpected(tok, "a string literal", "string literals must be enclosed in quotes"), tok)
}

func expectParenOpen(tok Token) *SpannedError {
	if tok.Kind == TokenParenOpen {
		return nil
	}
	return spanned(unexpected(tok, "an open parenthesis", ""), tok)
}

func expectParenClose(tok Token) *SpannedError {
	if tok.Kind == TokenParenClose {
		return nil
	}
	return spanned(unexpected(tok, "a closing parenthesis", ""), tok)
}

func expectIdent(tok Token, s string) (string, *SpannedError) {
	if len(s) > 0 && unicode.IsUpper(rune(s[0])) {
		return s, nil
	}
	return "", spanned(unexpected(tok, "an identifier", "identifiers must begin with an upper-case ascii letter"), tok)
}

func expectVar(tok Token, s string) (string, *SpannedError) {
	if len(s) > 0 && unicode.IsLower(rune(s[0])) {
		return s, nil
	}
	return "", spanned(unexpected(tok, "a variable name", "variable names must begin with a lower-case ascii letter"), tok)
}

// MaybeParseDefinition parses the next top-level form, or returns a nil
// Definition (and nil error) once the source is exhausted.
func (p *Parser) MaybeParseDefinition() (*Definition, *SpannedError) {
	tok, err := p.lex.Next()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case TokenEOF:
		return nil, nil
	case TokenParenOpen:
		start := tok.Start
		startLine, startCol := tok.Line, tok.Column
		def, err := p.parseDefinition()
		if err != nil {
			return nil, err
		}
		def.Span = p.loc(start, p.lex.pos, startLine, startCol)
		return def, nil
	default:
		return nil, spanned(unexpected(tok, "either an open parenthesis or the end of the file", ""), tok)
	}
}

func (p *Parser) parseDefinition() (*Definition, *SpannedError) {
	keywordTok, err := p.parseToken()
	if err != nil {
		return nil, err
	}
	keyword, err := expectSymbol(keywordTok)
	if err != nil {
		return nil, err
	}

	nameTok, err := p.parseToken()
	if err != nil {
		return nil, err
	}
	nameSym, err := expectSymbol(nameTok)
	if err != nil {
		return nil, err
	}
	name, err := expectIdent(nameTok, nameSym)
	if err != nil {
		return nil, err
	}

	switch keyword {
	case "criterion":
		crit, err := p.parseCriterion()
		if err != nil {
			return nil, err
		}
		return &Definition{Kind: DefCriterion, Name: name, Criterion: crit}, nil
	case "rule":
		rule, err := p.parseRule()
		if err != nil {
			return nil, err
		}
		return &Definition{Kind: DefRule, Name: name, Rule: rule}, nil
	case "response":
		group, err := p.parseResponseGroup()
		if err != nil {
			return nil, err
		}
		return &Definition{Kind: DefResponseGroup, Name: name, ResponseGroup: group}, nil
	default:
		return nil, spanned(unexpected(keywordTok, "a symbol containing one of the keywords 'criterion', 'rule', or 'response'", ""), keywordTok)
	}
}

func (p *Parser) parseCriterion() (respengine.Criterion, *SpannedError) {
	tok, err := p.parseToken()
	if err != nil {
		return respengine.Criterion{}, err
	}
	if err := expectParenOpen(tok); err != nil {
		return respengine.Criterion{}, err
	}

	varTok, err := p.parseToken()
	if err != nil {
		return respengine.Criterion{}, err
	}
	varSym, err := expectSymbol(varTok)
	if err != nil {
		return respengine.Criterion{}, err
	}
	varName, err := expectVar(varTok, varSym)
	if err != nil {
		return respengine.Criterion{}, err
	}

	predicate, err := p.parsePredicate()
	if err != nil {
		return respengine.Criterion{}, err
	}

	weight := float32(0)
	weightSet := false
	for {
		tok, err := p.parseToken()
		if err != nil {
			return respengine.Criterion{}, err
		}
		switch {
		case tok.Kind == TokenParenClose:
			goto done
		case tok.Kind == TokenSymbol && tok.Symbol == "weight" && !weightSet:
			wTok, err := p.parseToken()
			if err != nil {
				return respengine.Criterion{}, err
			}
			w, err := expectNumber(wTok)
			if err != nil {
				return respengine.Criterion{}, err
			}
			weight = w
			weightSet = true
		default:
			return respengine.Criterion{}, spanned(unexpected(tok, "either a closing parenthesis or the keyword 'weight'", ""), tok)
		}
	}
done:
	if !weightSet {
		weight = 1
	}
	return respengine.Criterion{
		Variable:  intern.Intern(varName),
		Predicate: predicate,
		Weight:    weight,
	}, nil
}

func (p *Parser) parsePredicate() (respengine.Predicate, *SpannedError) {
	tok, err := p.parseToken()
	if err != nil {
		return respengine.Predicate{}, err
	}

	switch tok.Kind {
	case TokenDoubleEqual:
		valTok, err := p.parseToken()
		if err != nil {
			return respengine.Predicate{}, err
		}
		switch {
		case valTok.Kind == TokenSymbol && valTok.Symbol == "true":
			if err := p.expectCloseNext(); err != nil {
				return respengine.Predicate{}, err
			}
			return respengine.BoolEqual(true), nil
		case valTok.Kind == TokenSymbol && valTok.Symbol == "false":
			if err := p.expectCloseNext(); err != nil {
				return respengine.Predicate{}, err
			}
			return respengine.BoolEqual(false), nil
		case valTok.Kind == TokenSymbol:
			if err := p.expectCloseNext(); err != nil {
				return respengine.Predicate{}, err
			}
			return respengine.StrEqual(intern.Intern(valTok.Symbol)), nil
		case valTok.Kind == TokenNumber:
			if err := p.expectCloseNext(); err != nil {
				return respengine.Predicate{}, err
			}
			return respengine.NumEqual(valTok.Number), nil
		default:
			return respengine.Predicate{}, spanned(unexpected(valTok, "either a boolean literal, a numeric literal, or a symbol", ""), valTok)
		}

	case TokenSymbol:
		if tok.Symbol != "in" {
			return respengine.Predicate{}, spanned(unexpected(tok, "either a symbol containing the keyword 'in' or the specifier '=='", ""), tok)
		}
		return p.parseRangePredicate()

	default:
		return respengine.Predicate{}, spanned(unexpected(tok, "either a symbol containing the keyword 'in' or the specifier '=='", ""), tok)
	}
}

func (p *Parser) expectCloseNext() *SpannedError {
	tok, err := p.parseToken()
	if err != nil {
		return err
	}
	return expectParenClose(tok)
}

func (p *Parser) parseRangePredicate() (respengine.Predicate, *SpannedError) {
	tok, err := p.parseToken()
	if err != nil {
		return respengine.Predicate{}, err
	}

	switch tok.Kind {
	case TokenNumber:
		start := tok.Number
		rangeTok, err := p.parseToken()
		if err != nil {
			return respengine.Predicate{}, err
		}
		if rangeTok.Kind != TokenRange {
			return respengine.Predicate{}, spanned(unexpected(rangeTok, "either of the specifiers '..' or '..='", ""), rangeTok)
		}
		inclusive := rangeTok.RangeInclusive

		endTok, err := p.parseToken()
		if err != nil {
			return respengine.Predicate{}, err
		}
		switch endTok.Kind {
		case TokenNumber:
			if err := p.expectCloseNext(); err != nil {
				return respengine.Predicate{}, err
			}
			end := endTok.Number
			if !inclusive {
				end = nextDown32(end)
			}
			lo, hi := start, end
			return respengine.NumRange(&lo, &hi), nil
		case TokenParenClose:
			lo := start
			return respengine.NumRange(&lo, nil), nil
		default:
			return respengine.Predicate{}, spanned(unexpected(endTok, "either a numeric literal or a closing parenthesis", ""), endTok)
		}

	case TokenRange:
		if tok.RangeInclusive {
			endTok, err := p.parseToken()
			if err != nil {
				return respengine.Predicate{}, err
			}
			end, err := expectNumber(endTok)
			if err != nil {
				return respengine.Predicate{}, err
			}
			if err := p.expectCloseNext(); err != nil {
				return respengine.Predicate{}, err
			}
			hi := end
			return respengine.NumRange(nil, &hi), nil
		}
		endTok, err := p.parseToken()
		if err != nil {
			return respengine.Predicate{}, err
		}
		switch endTok.Kind {
		case TokenNumber:
			if err := p.expectCloseNext(); err != nil {
				return respengine.Predicate{}, err
			}
			hi := nextDown32(endTok.Number)
			return respengine.NumRange(nil, &hi), nil
		case TokenParenClose:
			return respengine.NumRange(nil, nil), nil
		default:
			return respengine.Predicate{}, spanned(unexpected(endTok, "either a numeric literal or a closing parenthesis", ""), endTok)
		}

	default:
		return respengine.Predicate{}, spanned(unexpected(tok, "either a numeric literal or either of the specifiers '..' or '..='", ""), tok)
	}
}

func (p *Parser) parseList(parseItem func(Token) (string, *SpannedError)) ([]string, *SpannedError) {
	tok, err := p.parseToken()
	if err != nil {
		return nil, err
	}
	if err := expectParenOpen(tok); err != nil {
		return nil, err
	}
	var list []string
	for {
		tok, err := p.parseToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == TokenParenClose {
			return list, nil
		}
		item, err := parseItem(tok)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
}

func (p *Parser) parseIdentList() ([]string, *SpannedError) {
	return p.parseList(func(tok Token) (string, *SpannedError) {
		sym, err := expectSymbol(tok)
		if err != nil {
			return "", err
		}
		return expectIdent(tok, sym)
	})
}

func (p *Parser) parseOperation() (respengine.Operation, *SpannedError) {
	tok, err := p.parseToken()
	if err != nil {
		return respengine.Operation{}, err
	}

	switch tok.Kind {
	case TokenColonNegated:
		return respengine.Operation{Kind: respengine.OpBoolToggle}, nil
	case TokenColonEqual:
		valTok, err := p.parseToken()
		if err != nil {
			return respengine.Operation{}, err
		}
		switch {
		case valTok.Kind == TokenSymbol && valTok.Symbol == "true":
			return respengine.Operation{Kind: respengine.OpBoolSet, Bool: true}, nil
		case valTok.Kind == TokenSymbol && valTok.Symbol == "false":
			return respengine.Operation{Kind: respengine.OpBoolSet, Bool: false}, nil
		case valTok.Kind == TokenNumber:
			return respengine.Operation{Kind: respengine.OpNumSet, Num: valTok.Number}, nil
		case valTok.Kind == TokenSymbol:
			return respengine.Operation{Kind: respengine.OpStrSet, Str: intern.Intern(valTok.Symbol)}, nil
		default:
			return respengine.Operation{}, spanned(unexpected(valTok, "either a boolean literal, a numeric literal, or a symbol", ""), valTok)
		}
	case TokenColonPlus:
		valTok, err := p.parseToken()
		if err != nil {
			return respengine.Operation{}, err
		}
		v, err := expectNumber(valTok)
		if err != nil {
			return respengine.Operation{}, err
		}
		return respengine.Operation{Kind: respengine.OpNumAdd, Num: v}, nil
	case TokenColonMinus:
		valTok, err := p.parseToken()
		if err != nil {
			return respengine.Operation{}, err
		}
		v, err := expectNumber(valTok)
		if err != nil {
			return respengine.Operation{}, err
		}
		return respengine.Operation{Kind: respengine.OpNumAdd, Num: -v}, nil
	default:
		return respengine.Operation{}, spanned(unexpected(tok, "one of the operators ':!', ':=', ':+' or ':-'", ""), tok)
	}
}

func (p *Parser) parseRule() (respengine.Rule, *SpannedError) {
	criteriaNames, err := p.parseIdentList()
	if err != nil {
		return respengine.Rule{}, err
	}
	groupNames, err := p.parseIdentList()
	if err != nil {
		return respengine.Rule{}, err
	}

	var instructions []respengine.Instruction
	weight := float32(0)
	weightSet := false
	for {
		tok, err := p.parseToken()
		if err != nil {
			return respengine.Rule{}, err
		}
		switch {
		case tok.Kind == TokenParenClose:
			criteria := make([]intern.Handle, len(criteriaNames))
			for i, n := range criteriaNames {
				criteria[i] = intern.Intern(n)
			}
			groups := make([]intern.Handle, len(groupNames))
			for i, n := range groupNames {
				groups[i] = intern.Intern(n)
			}
			if !weightSet {
				weight = 1
			}
			return respengine.Rule{Criteria: criteria, ResponseGroups: groups, Instructions: instructions, Weight: weight}, nil
		case tok.Kind == TokenSymbol && tok.Symbol == "weight" && !weightSet:
			wTok, err := p.parseToken()
			if err != nil {
				return respengine.Rule{}, err
			}
			w, err := expectNumber(wTok)
			if err != nil {
				return respengine.Rule{}, err
			}
			weight = w
			weightSet = true
		case tok.Kind == TokenDollarSign:
			varTok, err := p.parseToken()
			if err != nil {
				return respengine.Rule{}, err
			}
			varSym, err := expectSymbol(varTok)
			if err != nil {
				return respengine.Rule{}, err
			}
			varName, err := expectVar(varTok, varSym)
			if err != nil {
				return respengine.Rule{}, err
			}
			op, err := p.parseOperation()
			if err != nil {
				return respengine.Rule{}, err
			}
			instructions = append(instructions, respengine.Instruction{Variable: intern.Intern(varName), Global: true, Operation: op})
		case tok.Kind == TokenSymbol:
			varName, err := expectVar(tok, tok.Symbol)
			if err != nil {
				return respengine.Rule{}, err
			}
			op, err := p.parseOperation()
			if err != nil {
				return respengine.Rule{}, err
			}
			instructions = append(instructions, respengine.Instruction{Variable: intern.Intern(varName), Global: false, Operation: op})
		default:
			return respengine.Rule{}, spanned(unexpected(tok, "either a variable name, the '$' variable modifier, the keyword 'weight', or a closing parenthesis", ""), tok)
		}
	}
}

func (p *Parser) parseResponse() (respengine.Response, *SpannedError) {
	response := make(respengine.Response)
	for {
		tok, err := p.parseToken()
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case TokenParenClose:
			return response, nil
		case TokenSymbol:
			valTok, err := p.parseToken()
			if err != nil {
				return nil, err
			}
			value, err := expectString(valTok)
			if err != nil {
				return nil, err
			}
			response[tok.Symbol] = value
		default:
			return nil, spanned(unexpected(tok, "either a symbol or a closing parenthesis", ""), tok)
		}
	}
}

func (p *Parser) parseResponseGroup() (respengine.ResponseGroup, *SpannedError) {
	tok, err := p.parseToken()
	if err != nil {
		return respengine.ResponseGroup{}, err
	}

	delivery := respengine.DeliveryShuffle
	if tok.Kind == TokenSymbol {
		switch tok.Symbol {
		case "shuffle":
			delivery = respengine.DeliveryShuffle
		case "random":
			delivery = respengine.DeliveryRandom
		case "deplete":
			delivery = respengine.DeliveryDeplete
		case "loop":
			delivery = respengine.DeliveryLoop
		case "list":
			delivery = respengine.DeliveryList
		default:
			return respengine.ResponseGroup{}, spanned(unexpected(tok, "a symbol containing one of the keywords 'shuffle', 'random', 'deplete', 'loop', or 'list'", ""), tok)
		}
		tok, err = p.parseToken()
		if err != nil {
			return respengine.ResponseGroup{}, err
		}
	}

	var responses []respengine.Response
	for {
		switch {
		case tok.Kind == TokenParenClose && len(responses) > 0:
			return respengine.ResponseGroup{Delivery: delivery, Responses: responses}, nil
		case tok.Kind == TokenParenOpen:
			resp, err := p.parseResponse()
			if err != nil {
				return respengine.ResponseGroup{}, err
			}
			responses = append(responses, resp)
		default:
			return respengine.ResponseGroup{}, spanned(unexpected(tok, "either an open parenthesis or a closing parenthesis", ""), tok)
		}
		tok, err = p.parseToken()
		if err != nil {
			return respengine.ResponseGroup{}, err
		}
	}
}
