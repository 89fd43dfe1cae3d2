// Implements the lowest level of processing of CMap content streams.
// Tokens are classified, but their content is kept as raw bytes:
// escape sequences in strings and names are resolved by the higher
// level cmapparser package.
package tokenizer

import "errors"

type Kind uint8

const (
	EOF Kind = iota
	String
	Name
	Number
	StartArray
	EndArray
	StartDic
	EndDic
	Comment
	Other // bare words, including command operators
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case String:
		return "String"
	case Name:
		return "Name"
	case Number:
		return "Number"
	case StartArray:
		return "StartArray"
	case EndArray:
		return "EndArray"
	case StartDic:
		return "StartDic"
	case EndDic:
		return "EndDic"
	case Comment:
		return "Comment"
	case Other:
		return "Other"
	default:
		return "<invalid token>"
	}
}

func isWhitespace(ch byte) bool {
	switch ch {
	case 0, 9, 10, 12, 13, 32:
		return true
	default:
		return false
	}
}

// white space + delimiters
func isDelimiter(ch byte) bool {
	switch ch {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	default:
		return isWhitespace(ch)
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Token represents a basic piece of information.
// `Value` holds the raw bytes of the token: backslash escapes in
// strings and '#' sequences in names are left untouched.
type Token struct {
	Value []byte
	Kind  Kind
	IsHex bool // for String tokens: written in <...> form
}

// IsOther returns true if the token is the given bare word.
func (t Token) IsOther(cmd string) bool {
	return t.Kind == Other && string(t.Value) == cmd
}

// Tokenize consumes all the input, splitting it into tokens.
// When performance matters, you should use the iteration method
// `NextToken` of the Tokenizer type.
func Tokenize(data []byte) ([]Token, error) {
	tk := NewTokenizer(data)
	var out []Token
	t, err := tk.NextToken()
	for ; t.Kind != EOF && err == nil; t, err = tk.NextToken() {
		out = append(out, t)
	}
	return out, err
}

// Tokenizer is a pull-based CMap content tokenizer.
// It stores one token in advance, so that peeking is immediate.
//
// Comments are not skipped but returned as Comment tokens, leaving
// the choice to the caller.
type Tokenizer struct {
	data []byte
	pos  int

	aheadToken Token
	aheadErr   error
}

func NewTokenizer(data []byte) *Tokenizer {
	tk := &Tokenizer{data: data}
	tk.aheadToken, tk.aheadErr = tk.readToken()
	return tk
}

// PeekToken reads a token but does not advance the position.
// It returns a cached value, meaning it is a very cheap call.
func (tk *Tokenizer) PeekToken() (Token, error) {
	return tk.aheadToken, tk.aheadErr
}

// NextToken reads a token and advances (consuming the token).
// If the end of the input is reached, no error is returned,
// but an `EOF` token.
func (tk *Tokenizer) NextToken() (Token, error) {
	t, err := tk.aheadToken, tk.aheadErr
	if err == nil && t.Kind != EOF {
		tk.aheadToken, tk.aheadErr = tk.readToken()
	}
	return t, err
}

// return false if EOF, true if we moved forward
func (tk *Tokenizer) read() (byte, bool) {
	if tk.pos >= len(tk.data) {
		return 0, false
	}
	ch := tk.data[tk.pos]
	tk.pos++
	return ch, true
}

// reads and advances, mutating `pos`
func (tk *Tokenizer) readToken() (Token, error) {
	ch, ok := tk.read()
	for ok && isWhitespace(ch) {
		ch, ok = tk.read()
	}
	if !ok {
		return Token{Kind: EOF}, nil
	}

	var outBuf []byte
	switch ch {
	case '[':
		return Token{Kind: StartArray}, nil
	case ']':
		return Token{Kind: EndArray}, nil
	case '/':
		for {
			ch, ok = tk.read()
			if !ok || isDelimiter(ch) {
				break
			}
			outBuf = append(outBuf, ch)
		}
		// the delimiter may start the next token, dont skip it
		if ok {
			tk.pos--
		}
		return Token{Kind: Name, Value: outBuf}, nil
	case '>':
		ch, ok = tk.read()
		if !ok || ch != '>' {
			return Token{}, errors.New("'>' not expected")
		}
		return Token{Kind: EndDic}, nil
	case '<':
		ch, ok = tk.read()
		if ok && ch == '<' {
			return Token{Kind: StartDic}, nil
		}
		// hex string: store the digits, nibble packing is done later
		for {
			if !ok {
				return Token{}, errors.New("error reading hex string: unexpected EOF")
			}
			if ch == '>' {
				break
			}
			if !isWhitespace(ch) {
				outBuf = append(outBuf, ch)
			}
			ch, ok = tk.read()
		}
		return Token{Kind: String, Value: outBuf, IsHex: true}, nil
	case '%':
		for {
			ch, ok = tk.read()
			if !ok || ch == '\r' || ch == '\n' {
				break
			}
			outBuf = append(outBuf, ch)
		}
		return Token{Kind: Comment, Value: outBuf}, nil
	case '(':
		nesting := 0
		for {
			ch, ok = tk.read()
			if !ok {
				return Token{}, errors.New("error reading string: unexpected EOF")
			}
			if ch == '(' {
				nesting++
			} else if ch == ')' {
				if nesting == 0 {
					break
				}
				nesting--
			} else if ch == '\\' {
				// keep the escape raw, but don't let an escaped
				// parenthesis close the string
				outBuf = append(outBuf, ch)
				ch, ok = tk.read()
				if !ok {
					return Token{}, errors.New("error reading string: unexpected EOF")
				}
			}
			outBuf = append(outBuf, ch)
		}
		return Token{Kind: String, Value: outBuf}, nil
	default:
		tk.pos-- // we need the test char
		if token, isNumber := tk.readNumber(); isNumber {
			return token, nil
		}
		ch, _ = tk.read() // we went back before trying a number
		outBuf = append(outBuf, ch)
		if !isDelimiter(ch) {
			for {
				ch, ok = tk.read()
				if !ok || isDelimiter(ch) {
					break
				}
				outBuf = append(outBuf, ch)
			}
			if ok {
				tk.pos--
			}
		}
		return Token{Kind: Other, Value: outBuf}, nil
	}
}

// scans a numeric literal, returning false (and restoring the
// position) if the input does not start with one.
// The raw text is kept: conversion is left to the parser.
func (tk *Tokenizer) readNumber() (Token, bool) {
	markedPos := tk.pos

	var buf []byte
	hasDigit := false

	c, ok := tk.read()
	// optional + or -
	if ok && (c == '+' || c == '-') {
		buf = append(buf, c)
		c, ok = tk.read()
	}

	// optional digits
	for ok && isDigit(c) {
		buf = append(buf, c)
		hasDigit = true
		c, ok = tk.read()
	}

	// optional . and fractional digits
	if ok && c == '.' {
		buf = append(buf, c)
		c, ok = tk.read()
		for ok && isDigit(c) {
			buf = append(buf, c)
			hasDigit = true
			c, ok = tk.read()
		}
	}

	if !hasDigit {
		// failure
		tk.pos = markedPos
		return Token{}, false
	}

	// exponents are forbidden by the spec, but seen in the wild
	if ok && (c == 'e' || c == 'E') {
		expMark := tk.pos - 1
		exp := []byte{c}
		c, ok = tk.read()
		if ok && c == '-' {
			exp = append(exp, c)
			c, ok = tk.read()
		}
		if ok && isDigit(c) {
			buf = append(buf, exp...)
			for ok && isDigit(c) {
				buf = append(buf, c)
				c, ok = tk.read()
			}
		} else {
			// not an exponent after all
			tk.pos = expMark
			return Token{Kind: Number, Value: buf}, true
		}
	}

	if ok {
		tk.pos--
	}
	return Token{Kind: Number, Value: buf}, true
}
