package cmapparser

// Object is one value of a CMap content stream. Its dynamic type is
// always one of Dict, Array, Name, String, HexString, Number,
// Operand or Delim.
type Object interface{}

// Dict maps decoded names to values.
// A repeated key keeps the last value.
type Dict = map[Name]Object

// Array is an ordered sequence of objects.
type Array = []Object

// Name is a decoded name, with '#' escapes resolved. It is used both
// as dictionary key and as scalar value.
type Name string

// String is a decoded literal string: escape sequences are resolved,
// and each source byte maps to one byte of the string.
type String string

// HexString stores the packed bytes of an hex string,
// one byte per pair of hex digits.
type HexString []byte

// Number is a numeric value, truncated to 32 bits. Unparsable or out
// of range numeric tokens are tolerated and collapse to math.MinInt32.
type Number int32

// Operand is a bare command word, such as "begincmap".
// It terminates a command sequence.
type Operand string

// Delim is a structural delimiter ("]" or ">>") read outside of its
// container. It is only ever transient: an enclosing parser either
// treats it as the end of its own container, or rejects it.
type Delim string
