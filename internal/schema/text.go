package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDataType parses a compact text grammar for data types:
// a TitleCase head (lowercase heads such as "i32" are not accepted),
// optionally followed by a parenthesized
// argument list, e.g. "I32", "Decimal128(12, 3)",
// "Timestamp(Millisecond, Some(\"UTC\"))",
// "List(Struct([(\"x\", F64), (\"y\", F64)]))".
func ParseDataType(s string) (DataType, error) {
	p := &textParser{s: s}
	dt, err := p.parseDataType()
	if err != nil {
		return DataType{}, err
	}
	p.skipSpace()
	if p.pos != len(p.s) {
		return DataType{}, fmt.Errorf("unexpected trailing input %q", p.s[p.pos:])
	}
	return dt, nil
}

type textParser struct {
	s   string
	pos int
}

func (p *textParser) skipSpace() {
	for p.pos < len(p.s) && (p.s[p.pos] == ' ' || p.s[p.pos] == '\t') {
		p.pos++
	}
}

func (p *textParser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *textParser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		return fmt.Errorf("expected %q at position %d in %q", c, p.pos, p.s)
	}
	p.pos++
	return nil
}

func (p *textParser) parseIdent() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if c == '(' || c == ')' || c == ',' || c == ' ' {
			break
		}
		p.pos++
	}
	return p.s[start:p.pos]
}

func (p *textParser) parseString() (string, error) {
	if err := p.expect('"'); err != nil {
		return "", err
	}
	start := p.pos
	for p.pos < len(p.s) && p.s[p.pos] != '"' {
		p.pos++
	}
	if p.pos >= len(p.s) {
		return "", fmt.Errorf("unterminated string in %q", p.s)
	}
	v := p.s[start:p.pos]
	p.pos++
	return v, nil
}

func (p *textParser) parseInt() (int32, error) {
	p.skipSpace()
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
		p.pos++
	}
	if start == p.pos {
		return 0, fmt.Errorf("expected integer at position %d in %q", p.pos, p.s)
	}
	v, err := strconv.ParseInt(p.s[start:p.pos], 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

func (p *textParser) parseUnit() (TimeUnit, error) {
	ident := p.parseIdent()
	switch ident {
	case "Second":
		return Second, nil
	case "Millisecond":
		return Millisecond, nil
	case "Microsecond":
		return Microsecond, nil
	case "Nanosecond":
		return Nanosecond, nil
	default:
		return 0, fmt.Errorf("unknown time unit %q", ident)
	}
}

// parseOptionalTz parses `None` or `Some("tz")`.
func (p *textParser) parseOptionalTz() (string, error) {
	p.skipSpace()
	ident := p.parseIdent()
	switch ident {
	case "None":
		return "", nil
	case "Some":
		if err := p.expect('('); err != nil {
			return "", err
		}
		tz, err := p.parseString()
		if err != nil {
			return "", err
		}
		if err := p.expect(')'); err != nil {
			return "", err
		}
		return tz, nil
	default:
		return "", fmt.Errorf("expected None or Some(...), got %q", ident)
	}
}

func (p *textParser) parseDataType() (DataType, error) {
	head := p.parseIdent()
	switch head {
	case "Null":
		return NullType(), nil
	case "Bool":
		return BoolType(), nil
	case "I8":
		return I8Type(), nil
	case "I16":
		return I16Type(), nil
	case "I32":
		return I32Type(), nil
	case "I64":
		return I64Type(), nil
	case "U8":
		return U8Type(), nil
	case "U16":
		return U16Type(), nil
	case "U32":
		return U32Type(), nil
	case "U64":
		return U64Type(), nil
	case "F16":
		return F16Type(), nil
	case "F32":
		return F32Type(), nil
	case "F64":
		return F64Type(), nil
	case "Utf8":
		return Utf8Type(), nil
	case "LargeUtf8":
		return LargeUtf8Type(), nil
	case "Utf8View":
		return Utf8ViewType(), nil
	case "Binary":
		return BinaryType(), nil
	case "LargeBinary":
		return LargeBinaryType(), nil
	case "BinaryView":
		return BinaryViewType(), nil
	case "Date32":
		return Date32Type(), nil
	case "Date64":
		return Date64Type(), nil
	case "FixedSizeBinary":
		if err := p.expect('('); err != nil {
			return DataType{}, err
		}
		n, err := p.parseInt()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect(')'); err != nil {
			return DataType{}, err
		}
		return FixedSizeBinaryType(n), nil
	case "Time32":
		if err := p.expect('('); err != nil {
			return DataType{}, err
		}
		unit, err := p.parseUnit()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect(')'); err != nil {
			return DataType{}, err
		}
		return Time32Type(unit)
	case "Time64":
		if err := p.expect('('); err != nil {
			return DataType{}, err
		}
		unit, err := p.parseUnit()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect(')'); err != nil {
			return DataType{}, err
		}
		return Time64Type(unit)
	case "Timestamp":
		if err := p.expect('('); err != nil {
			return DataType{}, err
		}
		unit, err := p.parseUnit()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect(','); err != nil {
			return DataType{}, err
		}
		tz, err := p.parseOptionalTz()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect(')'); err != nil {
			return DataType{}, err
		}
		return TimestampType(unit, tz), nil
	case "Duration":
		if err := p.expect('('); err != nil {
			return DataType{}, err
		}
		unit, err := p.parseUnit()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect(')'); err != nil {
			return DataType{}, err
		}
		return DurationType(unit), nil
	case "Decimal128":
		if err := p.expect('('); err != nil {
			return DataType{}, err
		}
		prec, err := p.parseInt()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect(','); err != nil {
			return DataType{}, err
		}
		scale, err := p.parseInt()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect(')'); err != nil {
			return DataType{}, err
		}
		return Decimal128Type(prec, scale)
	case "List":
		if err := p.expect('('); err != nil {
			return DataType{}, err
		}
		item, err := p.parseDataType()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect(')'); err != nil {
			return DataType{}, err
		}
		return ListType(item, true), nil
	case "LargeList":
		if err := p.expect('('); err != nil {
			return DataType{}, err
		}
		item, err := p.parseDataType()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect(')'); err != nil {
			return DataType{}, err
		}
		return LargeListType(item, true), nil
	case "FixedSizeList":
		if err := p.expect('('); err != nil {
			return DataType{}, err
		}
		item, err := p.parseDataType()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect(','); err != nil {
			return DataType{}, err
		}
		n, err := p.parseInt()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect(')'); err != nil {
			return DataType{}, err
		}
		return FixedSizeListType(item, true, n), nil
	case "Struct":
		if err := p.expect('('); err != nil {
			return DataType{}, err
		}
		fields, err := p.parseFieldList()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect(')'); err != nil {
			return DataType{}, err
		}
		return StructType(fields...), nil
	case "Dictionary":
		if err := p.expect('('); err != nil {
			return DataType{}, err
		}
		key, err := p.parseDataType()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect(','); err != nil {
			return DataType{}, err
		}
		value, err := p.parseDataType()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect(')'); err != nil {
			return DataType{}, err
		}
		return DictionaryType(key, value)
	case "Map":
		if err := p.expect('('); err != nil {
			return DataType{}, err
		}
		key, err := p.parseDataType()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect(','); err != nil {
			return DataType{}, err
		}
		value, err := p.parseDataType()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect(')'); err != nil {
			return DataType{}, err
		}
		return MapType(key, value, true), nil
	case "DenseUnion":
		if err := p.expect('('); err != nil {
			return DataType{}, err
		}
		variants, typeIDs, err := p.parseUnionVariantList()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect(')'); err != nil {
			return DataType{}, err
		}
		return DenseUnionType(variants, typeIDs)
	default:
		return DataType{}, fmt.Errorf("unknown data type head %q", head)
	}
}

// parseFieldList parses `[("x", F64), ("y", F64)]`.
func (p *textParser) parseFieldList() ([]Field, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	var fields []Field
	p.skipSpace()
	for p.peek() != ']' {
		if err := p.expect('('); err != nil {
			return nil, err
		}
		name, err := p.parseString()
		if err != nil {
			return nil, err
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		dt, err := p.parseDataType()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: name, Type: dt, Nullable: true})
		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
			p.skipSpace()
		}
	}
	p.pos++ // ']'
	return fields, nil
}

// parseUnionVariantList parses `[("A", Null, 0), ("B", Struct([...]), 1)]`.
func (p *textParser) parseUnionVariantList() ([]Field, []int8, error) {
	if err := p.expect('['); err != nil {
		return nil, nil, err
	}
	var variants []Field
	var typeIDs []int8
	p.skipSpace()
	for p.peek() != ']' {
		if err := p.expect('('); err != nil {
			return nil, nil, err
		}
		name, err := p.parseString()
		if err != nil {
			return nil, nil, err
		}
		if err := p.expect(','); err != nil {
			return nil, nil, err
		}
		dt, err := p.parseDataType()
		if err != nil {
			return nil, nil, err
		}
		if err := p.expect(','); err != nil {
			return nil, nil, err
		}
		code, err := p.parseInt()
		if err != nil {
			return nil, nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, nil, err
		}
		variants = append(variants, Field{Name: name, Type: dt})
		typeIDs = append(typeIDs, int8(code))
		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
			p.skipSpace()
		}
	}
	p.pos++ // ']'
	return variants, typeIDs, nil
}

// FormatDataType renders dt back into the compact text grammar.
func FormatDataType(dt DataType) string {
	var b strings.Builder
	writeDataType(&b, dt)
	return b.String()
}

func writeDataType(b *strings.Builder, dt DataType) {
	switch dt.ID() {
	case Null, Bool, I8, I16, I32, I64, U8, U16, U32, U64, F16, F32, F64,
		Utf8, LargeUtf8, Utf8View, Binary, LargeBinary, BinaryView, Date32, Date64:
		b.WriteString(dt.ID().String())
	case FixedSizeBinary:
		fmt.Fprintf(b, "FixedSizeBinary(%d)", dt.Width())
	case Time32, Time64:
		fmt.Fprintf(b, "%s(%s)", dt.ID(), dt.Unit())
	case Timestamp:
		if dt.Timezone() == "" {
			fmt.Fprintf(b, "Timestamp(%s, None)", dt.Unit())
		} else {
			fmt.Fprintf(b, "Timestamp(%s, Some(%q))", dt.Unit(), dt.Timezone())
		}
	case Duration:
		fmt.Fprintf(b, "Duration(%s)", dt.Unit())
	case Decimal128:
		fmt.Fprintf(b, "Decimal128(%d, %d)", dt.Precision(), dt.Scale())
	case List:
		b.WriteString("List(")
		writeDataType(b, dt.Child().Type)
		b.WriteString(")")
	case LargeList:
		b.WriteString("LargeList(")
		writeDataType(b, dt.Child().Type)
		b.WriteString(")")
	case FixedSizeList:
		fmt.Fprintf(b, "FixedSizeList(")
		writeDataType(b, dt.Child().Type)
		fmt.Fprintf(b, ", %d)", dt.Width())
	case Struct:
		b.WriteString("Struct([")
		for i, f := range dt.Children() {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "(%q, ", f.Name)
			writeDataType(b, f.Type)
			b.WriteString(")")
		}
		b.WriteString("])")
	case Map:
		entries := dt.Child().Type
		b.WriteString("Map(")
		writeDataType(b, entries.Children()[0].Type)
		b.WriteString(", ")
		writeDataType(b, entries.Children()[1].Type)
		b.WriteString(")")
	case DenseUnion:
		b.WriteString("DenseUnion([")
		for i, f := range dt.Children() {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "(%q, ", f.Name)
			writeDataType(b, f.Type)
			fmt.Fprintf(b, ", %d)", dt.TypeIDs()[i])
		}
		b.WriteString("])")
	case Dictionary:
		b.WriteString("Dictionary(")
		writeDataType(b, *dt.KeyType())
		b.WriteString(", ")
		writeDataType(b, *dt.ValueType())
		b.WriteString(")")
	default:
		b.WriteString("Unknown")
	}
}
