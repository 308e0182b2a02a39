package codegen

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"csr/internal/meta"
	"csr/internal/types"
)

// Builder is the default Assembler. It serializes the program into a flat
// binary container: a header, the field and method tables, and per-method
// code with branch targets resolved to byte offsets.
type Builder struct {
	name    string
	methods []*builderMethod
	fields  []*builderField
	entry   int32

	current   *builderMethod
	nextLabel Label
}

type builderMethod struct {
	token  int32
	name   string
	params []types.Type
	ret    types.Type
	locals []types.Type
	instrs []instruction
	labels map[Label]int
	code   []byte
}

type builderField struct {
	token int32
	name  string
	typ   types.Type
}

type instruction struct {
	op      Opcode
	operand []byte
	target  Label
}

const (
	containerMagic   = "CSRX"
	containerVersion = uint16(1)
	noTarget         = Label(-1)
)

func NewBuilder() *Builder { return &Builder{entry: -1} }

func (b *Builder) Begin(name string) { b.name = name }

func (b *Builder) DeclareMethod(name string, params []types.Type, ret types.Type) any {
	m := &builderMethod{
		token:  int32(len(b.methods)),
		name:   name,
		params: params,
		ret:    ret,
	}
	b.methods = append(b.methods, m)
	return m
}

func (b *Builder) DeclareStaticField(name string, t types.Type) any {
	f := &builderField{token: int32(len(b.fields)), name: name, typ: t}
	b.fields = append(b.fields, f)
	return f
}

func (b *Builder) DeclareInitializer() any {
	return b.DeclareMethod(".cctor", nil, types.TypeVoid)
}

func (b *Builder) BeginMethod(handle any, locals []types.Type) {
	b.current = handle.(*builderMethod)
	b.current.locals = locals
	b.current.labels = make(map[Label]int)
}

func (b *Builder) NewLabel() Label {
	b.nextLabel++
	return b.nextLabel
}

func (b *Builder) MarkLabel(l Label) {
	b.current.labels[l] = len(b.current.instrs)
}

func (b *Builder) Emit(op Opcode) {
	b.add(instruction{op: op, target: noTarget})
}

func (b *Builder) EmitInt(op Opcode, operand int32) {
	b.add(instruction{op: op, operand: encodeInt32(operand), target: noTarget})
}

func (b *Builder) EmitDouble(op Opcode, operand float64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(operand))
	b.add(instruction{op: op, operand: buf[:], target: noTarget})
}

func (b *Builder) EmitString(op Opcode, operand string) {
	b.add(instruction{op: op, operand: encodeString(operand), target: noTarget})
}

func (b *Builder) EmitBranch(op Opcode, target Label) {
	b.add(instruction{op: op, operand: make([]byte, 4), target: target})
}

func (b *Builder) EmitField(op Opcode, field any) {
	b.add(instruction{op: op, operand: encodeHandle(field), target: noTarget})
}

func (b *Builder) EmitCall(method any) {
	b.add(instruction{op: Call, operand: encodeHandle(method), target: noTarget})
}

func (b *Builder) EmitNewArray(elem types.PrimitiveKind, sizes []int) {
	operand := []byte{byte(elem), byte(len(sizes))}
	for _, s := range sizes {
		operand = append(operand, encodeInt32(int32(s))...)
	}
	b.add(instruction{op: Newobj, operand: operand, target: noTarget})
}

func (b *Builder) EmitArrayGet(elem types.PrimitiveKind, rank int) {
	name := fmt.Sprintf("%v[%d].Get", elem, rank)
	b.add(instruction{op: Call, operand: encodeString(name), target: noTarget})
}

func (b *Builder) EmitArraySet(elem types.PrimitiveKind, rank int) {
	name := fmt.Sprintf("%v[%d].Set", elem, rank)
	b.add(instruction{op: Call, operand: encodeString(name), target: noTarget})
}

// EndMethod lays the instructions out, resolves labels to byte offsets,
// and freezes the method's code.
func (b *Builder) EndMethod() {
	m := b.current
	b.current = nil

	offsets := make([]int32, len(m.instrs)+1)
	pos := int32(0)
	for i, ins := range m.instrs {
		offsets[i] = pos
		pos += 2 + int32(len(ins.operand))
	}
	offsets[len(m.instrs)] = pos

	var code bytes.Buffer
	for _, ins := range m.instrs {
		var op [2]byte
		binary.LittleEndian.PutUint16(op[:], uint16(ins.op))
		code.Write(op[:])
		if ins.target != noTarget {
			idx, ok := m.labels[ins.target]
			if !ok {
				idx = len(m.instrs)
			}
			code.Write(encodeInt32(offsets[idx]))
			continue
		}
		code.Write(ins.operand)
	}
	m.code = code.Bytes()
	m.instrs = nil
	m.labels = nil
}

func (b *Builder) SetEntryPoint(handle any) {
	b.entry = handle.(*builderMethod).token
}

// Save writes the container to disk.
func (b *Builder) Save(path string) error {
	var buf bytes.Buffer
	buf.WriteString(containerMagic)
	writeUint16(&buf, containerVersion)
	writeString(&buf, b.name)

	writeUint16(&buf, uint16(len(b.fields)))
	for _, f := range b.fields {
		writeString(&buf, f.name)
		writeString(&buf, f.typ.String())
	}

	writeUint16(&buf, uint16(len(b.methods)))
	for _, m := range b.methods {
		writeString(&buf, m.name)
		writeUint16(&buf, uint16(len(m.params)))
		for _, p := range m.params {
			writeString(&buf, p.String())
		}
		writeString(&buf, m.ret.String())
		writeUint16(&buf, uint16(len(m.locals)))
		for _, l := range m.locals {
			writeString(&buf, l.String())
		}
		buf.Write(encodeInt32(int32(len(m.code))))
		buf.Write(m.code)
	}

	buf.Write(encodeInt32(b.entry))
	return os.WriteFile(path, buf.Bytes(), 0o755)
}

func (b *Builder) add(ins instruction) {
	b.current.instrs = append(b.current.instrs, ins)
}

func encodeInt32(v int32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	return buf[:]
}

func encodeString(s string) []byte {
	out := encodeInt32(int32(len(s)))
	return append(out, s...)
}

// encodeHandle encodes a member token: locally declared members by index,
// external members by their qualified name.
func encodeHandle(h any) []byte {
	switch h := h.(type) {
	case *builderMethod:
		return encodeInt32(h.token)
	case *builderField:
		return encodeInt32(h.token)
	case *meta.MethodDescriptor:
		return encodeString(h.String())
	case *meta.FieldDescriptor:
		return encodeString(h.String())
	default:
		return encodeString(fmt.Sprintf("%v", h))
	}
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeString(buf *bytes.Buffer, s string) {
	buf.Write(encodeString(s))
}
