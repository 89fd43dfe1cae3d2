// Implements a parser for the content of CMap resources: a
// PostScript-like stream of dictionaries, arrays, strings, names,
// numbers and command words, as used by PDF font encodings.
//
// The parser builds generic Object values; interpreting them
// (such as building code to glyph maps) is left to the caller.
package cmapparser

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/benoitkugler/cmapparser/tokenizer"
)

// Parsing errors. Invalid dictionary keys are reported wrapped in
// ErrInvalidDictKey, with the offending token in the message.
var (
	ErrUnexpectedEOF          = errors.New("unexpected end of file")
	ErrInvalidDictKey         = errors.New("dictionary key is not a name")
	ErrUnexpectedCloseBracket = errors.New(`unexpected "]"`)
	ErrUnexpectedGtGt         = errors.New(`unexpected ">>"`)
)

// Parser reads the objects and commands of a CMap content stream.
// It owns a position in the content: a Parser must not be shared
// between concurrent parses.
type Parser struct {
	tk *tokenizer.Tokenizer
}

// NewParser creates a parser reading from the in-memory `content`.
func NewParser(content []byte) *Parser {
	return &Parser{tk: tokenizer.NewTokenizer(content)}
}

// nextValidToken advances to the next token, skipping over the
// comments. `ok` is false at the end of the content.
func (p *Parser) nextValidToken() (t tokenizer.Token, ok bool, err error) {
	for {
		t, err = p.tk.NextToken()
		if err != nil {
			return t, false, err
		}
		switch t.Kind {
		case tokenizer.Comment:
			continue
		case tokenizer.EOF:
			return t, false, nil
		default:
			return t, true, nil
		}
	}
}

// numbers are parsed as floats and truncated; parse failures and
// overflows are tolerated and collapse to the MinInt32 sentinel
func parseNumber(text []byte) Number {
	f, err := strconv.ParseFloat(string(text), 64)
	if err != nil {
		return Number(math.MinInt32)
	}
	f = math.Trunc(f)
	if f < math.MinInt32 || f > math.MaxInt32 {
		return Number(math.MinInt32)
	}
	return Number(f)
}

// ReadObject reads the next object of the content, recursing into
// dictionaries and arrays. A nil object with a nil error means the
// end of the content.
//
// Stray "]" and ">>" delimiters are returned as Delim values: they
// are legitimate while reading a container, and rejected anywhere
// else.
func (p *Parser) ReadObject() (Object, error) {
	token, ok, err := p.nextValidToken()
	if err != nil || !ok {
		return nil, err
	}
	switch token.Kind {
	case tokenizer.StartDic:
		return p.ReadDictionary()
	case tokenizer.StartArray:
		return p.ReadArray()
	case tokenizer.String:
		if token.IsHex {
			return HexString(DecodeHexString(token.Value)), nil
		}
		return String(DecodeString(token.Value)), nil
	case tokenizer.Name:
		return Name(DecodeName(token.Value)), nil
	case tokenizer.Number:
		return parseNumber(token.Value), nil
	case tokenizer.Other:
		return Operand(token.Value), nil
	case tokenizer.EndArray:
		return Delim("]"), nil
	case tokenizer.EndDic:
		return Delim(">>"), nil
	default:
		// not reachable with a well formed tokenizer
		return nil, fmt.Errorf("unexpected token %v", token.Kind)
	}
}

// ReadDictionary reads the content of a dictionary, the "<<" token
// being already consumed, up to the matching ">>".
// Bare "def" words between entries are skipped.
func (p *Parser) ReadDictionary() (Dict, error) {
	dict := Dict{}
	for {
		token, ok, err := p.nextValidToken()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrUnexpectedEOF
		}
		switch {
		case token.Kind == tokenizer.EndDic:
			return dict, nil
		case token.IsOther("def"):
			// separator between entries
		case token.Kind != tokenizer.Name:
			return nil, fmt.Errorf("%w: %s", ErrInvalidDictKey, token.Value)
		default:
			key := Name(DecodeName(token.Value))
			obj, err := p.ReadObject()
			if err != nil {
				return nil, err
			}
			if d, isDelim := obj.(Delim); isDelim {
				// unbalanced nesting
				if d == ">>" {
					return nil, ErrUnexpectedGtGt
				}
				if d == "]" {
					return nil, ErrUnexpectedCloseBracket
				}
			}
			dict[key] = obj
		}
	}
}

// ReadArray reads the content of an array, the "[" token being
// already consumed, up to the matching "]".
func (p *Parser) ReadArray() (Array, error) {
	var arr Array
	for {
		obj, err := p.ReadObject()
		if err != nil {
			return nil, err
		}
		if obj == nil {
			return nil, ErrUnexpectedEOF
		}
		if d, isDelim := obj.(Delim); isDelim {
			if d == "]" {
				return arr, nil
			}
			if d == ">>" {
				return nil, ErrUnexpectedGtGt
			}
		}
		arr = append(arr, obj)
	}
}

// ParseCommand reads one command of the content: its operand objects,
// followed by the command word as the last element.
// At the end of the content, the returned slice is empty.
func (p *Parser) ParseCommand() ([]Object, error) {
	var cmd []Object
	for {
		obj, err := p.ReadObject()
		if err != nil {
			return nil, err
		}
		if obj == nil { // end of content
			return cmd, nil
		}
		cmd = append(cmd, obj)
		if _, isCommand := obj.(Operand); isCommand {
			return cmd, nil
		}
	}
}
