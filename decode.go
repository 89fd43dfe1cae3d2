package cmapparser

import (
	"golang.org/x/exp/errors/fmt"
	"golang.org/x/text/encoding/unicode"
)

// hexDigit returns the value of an hex digit.
// Invalid bytes count as zero, matching the tolerance of legacy
// CMap consumers.
func hexDigit(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}

// DecodeName resolves the '#XX' escape sequences of a name token.
// A truncated escape silently ends the name.
func DecodeName(content []byte) string {
	buf := make([]byte, 0, len(content))
	for k := 0; k < len(content); k++ {
		c := content[k]
		if c == '#' {
			if k+2 >= len(content) {
				break
			}
			c = hexDigit(content[k+1])<<4 + hexDigit(content[k+2])
			k += 2
		}
		buf = append(buf, c)
	}
	return string(buf)
}

// DecodeHexString packs pairs of hex digits into bytes, high nibble
// first. An odd trailing digit is completed with a zero low nibble.
func DecodeHexString(content []byte) []byte {
	out := make([]byte, 0, (len(content)+1)/2)
	for i := 0; i < len(content); {
		v1 := hexDigit(content[i])
		i++
		if i == len(content) {
			out = append(out, v1<<4)
			break
		}
		v2 := hexDigit(content[i])
		i++
		out = append(out, v1<<4+v2)
	}
	return out
}

// DecodeString resolves the backslash escape sequences of a literal
// string: named escapes (\n \r \t \b \f), escaped delimiters,
// line continuations, and up to three octal digits. Unescaped CR and
// CRLF are normalized to LF.
// Bytes map one to one: no charset decoding is applied.
func DecodeString(content []byte) string {
	buf := make([]byte, 0, len(content))
	for i := 0; i < len(content); {
		ch := content[i]
		i++
		if ch == '\\' {
			if i == len(content) {
				// dangling escape
				break
			}
			lineBreak := false
			ch = content[i]
			i++
			switch ch {
			case 'n':
				ch = '\n'
			case 'r':
				ch = '\r'
			case 't':
				ch = '\t'
			case 'b':
				ch = '\b'
			case 'f':
				ch = '\f'
			case '(', ')', '\\':
				// the escape is simply removed
			case '\r':
				lineBreak = true
				if i < len(content) && content[i] == '\n' {
					i++
				}
			case '\n':
				lineBreak = true
			default:
				if ch < '0' || ch > '7' {
					// unknown escape: the backslash is dropped
					break
				}
				octal := int(ch - '0')
				for j := 0; j < 2 && i < len(content); j++ {
					next := content[i]
					if next < '0' || next > '7' {
						// not consumed: seen again at the next iteration
						break
					}
					octal = octal<<3 + int(next-'0')
					i++
				}
				ch = byte(octal) // only the low 8 bits are meaningful
			}
			if lineBreak {
				continue
			}
		} else if ch == '\r' {
			ch = '\n'
			if i < len(content) && content[i] == '\n' {
				i++
			}
		}
		buf = append(buf, ch)
	}
	return string(buf)
}

// ToHex formats an unicode code point as an hex literal "<HHHH>".
// Code points outside the Basic Multilingual Plane are encoded as an
// UTF-16 surrogate pair and wrapped in an array: "[<HHHHHHHH>]".
func ToHex(n rune) string {
	if n < 0x10000 {
		return fmt.Sprintf("<%04x>", n)
	}
	n -= 0x10000
	high := n/0x400 + 0xd800
	low := n%0x400 + 0xdc00
	return fmt.Sprintf("[<%04x%04x>]", high, low)
}

var utf16Dec = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()

// DecodeCMapObject returns the text content of a scalar object.
// The bytes of an hex string are interpreted as UTF-16BE; the other
// string valued variants (String, Name, Operand) are returned
// unchanged. Containers, numbers and delimiters are an error.
func DecodeCMapObject(o Object) (string, error) {
	switch o := o.(type) {
	case HexString:
		b, err := utf16Dec.Bytes(o)
		if err != nil {
			return "", fmt.Errorf("invalid UTF-16 hex string %v: %s", o, err)
		}
		return string(b), nil
	case String:
		return string(o), nil
	case Name:
		return string(o), nil
	case Operand:
		return string(o), nil
	default:
		return "", fmt.Errorf("unsupported object type %T", o)
	}
}
