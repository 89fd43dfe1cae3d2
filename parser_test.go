package cmapparser

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// cmapData represents a basic ToUnicode CMap.
const cmapData = `
	%!PS-Adobe-3.0 Resource-CMap
	/CIDInit/ProcSet findresource begin
	12 dict begin
	begincmap
	/CIDSystemInfo
	<< /Registry (Adobe)
	/Ordering (UCS)
	/Supplement 0
	>> def
	/CMapName/Adobe-Identity-UCS def
	/CMapType 2 def
	1 begincodespacerange
	<0000> <FFFF>
	endcodespacerange
	2 beginbfchar
	<0003> <0020>
	<005A> <0077>
	endbfchar
	endcmap
	CMapName currentdict/CMap defineresource pop
	end
	end
`

func TestReadDictionary(t *testing.T) {
	p := NewParser([]byte("<< /A 1 /B (x) >>"))
	obj, err := p.ReadObject()
	if err != nil {
		t.Fatal(err)
	}
	expected := Dict{"A": Number(1), "B": String("x")}
	if diff := cmp.Diff(expected, obj); diff != "" {
		t.Fatal(diff)
	}
}

func TestReadNested(t *testing.T) {
	data := "<< /A [1 (x) <414>] /B << /C/D def /E 2 >> >>"
	p := NewParser([]byte(data))
	obj, err := p.ReadObject()
	if err != nil {
		t.Fatal(err)
	}
	expected := Dict{
		"A": Array{Number(1), String("x"), HexString{0x41, 0x40}},
		"B": Dict{"C": Name("D"), "E": Number(2)},
	}
	if diff := cmp.Diff(expected, obj); diff != "" {
		t.Fatal(diff)
	}
}

func TestDefSeparator(t *testing.T) {
	p := NewParser([]byte("<< /Registry (Adobe) def /Supplement 0 def >>"))
	obj, err := p.ReadObject()
	if err != nil {
		t.Fatal(err)
	}
	expected := Dict{"Registry": String("Adobe"), "Supplement": Number(0)}
	if diff := cmp.Diff(expected, obj); diff != "" {
		t.Fatal(diff)
	}
}

func TestRepeatedKey(t *testing.T) {
	p := NewParser([]byte("<< /A 1 /A 2 >>"))
	obj, err := p.ReadObject()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Dict{"A": Number(2)}, obj); diff != "" {
		t.Fatal(diff)
	}
}

func TestReadArray(t *testing.T) {
	p := NewParser([]byte("[1 10 2555]"))
	obj, err := p.ReadObject()
	if err != nil {
		t.Fatal(err)
	}
	// the array is returned once, not wrapped in a second array
	expected := Array{Number(1), Number(10), Number(2555)}
	if diff := cmp.Diff(expected, obj); diff != "" {
		t.Fatal(diff)
	}

	p = NewParser([]byte("[]"))
	obj, err = p.ReadObject()
	if err != nil {
		t.Fatal(err)
	}
	arr, isArr := obj.(Array)
	if !isArr || len(arr) != 0 {
		t.Fatalf("expected empty array, got %v", obj)
	}
}

func TestStrayDelimiters(t *testing.T) {
	for _, test := range [...]struct {
		input    string
		expected error
	}{
		{"<< /A >> >>", ErrUnexpectedGtGt},
		{"<< /A ] >>", ErrUnexpectedCloseBracket},
		{"[ 1 >> ]", ErrUnexpectedGtGt},
		{"<< 5 (x) >>", ErrInvalidDictKey},
		{"<< (x) 5 >>", ErrInvalidDictKey},
		{"<< /A 1", ErrUnexpectedEOF},
		{"[1 2", ErrUnexpectedEOF},
	} {
		p := NewParser([]byte(test.input))
		_, err := p.ReadObject()
		if !errors.Is(err, test.expected) {
			t.Errorf("input %s: expected error %q, got %v", test.input, test.expected, err)
		}
	}
}

func TestStrayDelimiterObjects(t *testing.T) {
	// outside of a container, stray delimiters surface as Delim values
	p := NewParser([]byte("] >>"))
	obj, err := p.ReadObject()
	if err != nil || obj != Delim("]") {
		t.Fatalf("expected ], got %v %v", obj, err)
	}
	obj, err = p.ReadObject()
	if err != nil || obj != Delim(">>") {
		t.Fatalf("expected >>, got %v %v", obj, err)
	}
}

func TestNumbers(t *testing.T) {
	p := NewParser([]byte("1 -5 3.99 -3.99 2147483647 2147483648 99999999999999999999"))
	expected := []Number{1, -5, 3, -3, math.MaxInt32, math.MinInt32, math.MinInt32}
	for _, n := range expected {
		obj, err := p.ReadObject()
		if err != nil {
			t.Fatal(err)
		}
		if obj != n {
			t.Errorf("expected %d, got %v", n, obj)
		}
	}

	// unparsable numeric text is tolerated
	if n := parseNumber([]byte("abc")); n != math.MinInt32 {
		t.Errorf("expected MinInt32 sentinel, got %d", n)
	}
}

func TestParseCommand(t *testing.T) {
	p := NewParser([]byte("1 0 obj"))
	cmd, err := p.ParseCommand()
	if err != nil {
		t.Fatal(err)
	}
	expected := []Object{Number(1), Number(0), Operand("obj")}
	if diff := cmp.Diff(expected, cmd); diff != "" {
		t.Fatal(diff)
	}

	// empty input
	p = NewParser(nil)
	cmd, err = p.ParseCommand()
	if err != nil {
		t.Fatal(err)
	}
	if len(cmd) != 0 {
		t.Fatalf("expected no objects, got %v", cmd)
	}
}

func TestComments(t *testing.T) {
	p := NewParser([]byte("% comment\n<< /A % inline\n1 >>"))
	obj, err := p.ReadObject()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Dict{"A": Number(1)}, obj); diff != "" {
		t.Fatal(diff)
	}
}

func TestParseCMap(t *testing.T) {
	p := NewParser([]byte(cmapData))
	var commands [][]Object
	for {
		cmd, err := p.ParseCommand()
		if err != nil {
			t.Fatal(err)
		}
		if len(cmd) == 0 {
			break
		}
		commands = append(commands, cmd)
	}

	byOperand := map[Operand][]Object{}
	for _, cmd := range commands {
		op, isOp := cmd[len(cmd)-1].(Operand)
		if !isOp {
			t.Fatalf("command without operator: %v", cmd)
		}
		byOperand[op] = cmd
	}

	lastDef := byOperand["def"] // last def wins, CMapType here
	if diff := cmp.Diff([]Object{Name("CMapType"), Number(2), Operand("def")}, lastDef); diff != "" {
		t.Fatal(diff)
	}

	if diff := cmp.Diff(
		[]Object{Number(1), Operand("begincodespacerange")},
		byOperand["begincodespacerange"],
	); diff != "" {
		t.Fatal(diff)
	}

	// the CIDSystemInfo command carries the dictionary
	var info Dict
	for _, cmd := range commands {
		if len(cmd) == 3 && cmd[0] == Name("CIDSystemInfo") {
			info, _ = cmd[1].(Dict)
		}
	}
	expected := Dict{
		"Registry":   String("Adobe"),
		"Ordering":   String("UCS"),
		"Supplement": Number(0),
	}
	if diff := cmp.Diff(expected, info); diff != "" {
		t.Fatal(diff)
	}

	// the bfchar pairs are the operands of the endbfchar command
	bfchar := byOperand["endbfchar"]
	expectedBfchar := []Object{
		HexString{0x00, 0x03}, HexString{0x00, 0x20},
		HexString{0x00, 0x5a}, HexString{0x00, 0x77},
		Operand("endbfchar"),
	}
	if diff := cmp.Diff(expectedBfchar, bfchar); diff != "" {
		t.Fatal(diff)
	}
}

func TestHexStringsInStream(t *testing.T) {
	p := NewParser([]byte("<0003> <0020> endbfchar"))
	cmd, err := p.ParseCommand()
	if err != nil {
		t.Fatal(err)
	}
	expected := []Object{HexString{0x00, 0x03}, HexString{0x00, 0x20}, Operand("endbfchar")}
	if diff := cmp.Diff(expected, cmd); diff != "" {
		t.Fatal(diff)
	}
	out, err := DecodeCMapObject(cmd[1])
	if err != nil {
		t.Fatal(err)
	}
	if out != " " {
		t.Errorf("expected space, got %q", out)
	}
}
