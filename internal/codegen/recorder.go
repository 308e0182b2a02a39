package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"csr/internal/meta"
	"csr/internal/types"
)

// Recorder is an Assembler that keeps a readable trace of everything the
// generator emits instead of producing an artifact. Tests assert against
// the mnemonic listing.
type Recorder struct {
	Assembly string
	Methods  []*RecordedMethod
	Fields   []*RecordedField
	Entry    *RecordedMethod

	current   *RecordedMethod
	nextLabel Label
}

type RecordedMethod struct {
	Name   string
	Params []types.Type
	Ret    types.Type
	Locals []types.Type
	Code   []string
}

type RecordedField struct {
	Name string
	Type types.Type
}

func NewRecorder() *Recorder { return &Recorder{} }

// Method returns the recorded method with the given name.
func (r *Recorder) Method(name string) *RecordedMethod {
	for _, m := range r.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func (r *Recorder) Begin(name string) { r.Assembly = name }

func (r *Recorder) DeclareMethod(name string, params []types.Type, ret types.Type) any {
	m := &RecordedMethod{Name: name, Params: params, Ret: ret}
	r.Methods = append(r.Methods, m)
	return m
}

func (r *Recorder) DeclareStaticField(name string, t types.Type) any {
	f := &RecordedField{Name: name, Type: t}
	r.Fields = append(r.Fields, f)
	return f
}

func (r *Recorder) DeclareInitializer() any {
	m := &RecordedMethod{Name: ".cctor", Ret: types.TypeVoid}
	r.Methods = append(r.Methods, m)
	return m
}

func (r *Recorder) BeginMethod(handle any, locals []types.Type) {
	r.current = handle.(*RecordedMethod)
	r.current.Locals = locals
}

func (r *Recorder) NewLabel() Label {
	r.nextLabel++
	return r.nextLabel
}

func (r *Recorder) MarkLabel(l Label) {
	r.record(fmt.Sprintf("L%d:", l))
}

func (r *Recorder) Emit(op Opcode) { r.record(op.String()) }

func (r *Recorder) EmitInt(op Opcode, operand int32) {
	r.record(fmt.Sprintf("%v %d", op, operand))
}

func (r *Recorder) EmitDouble(op Opcode, operand float64) {
	r.record(fmt.Sprintf("%v %s", op, strconv.FormatFloat(operand, 'g', -1, 64)))
}

func (r *Recorder) EmitString(op Opcode, operand string) {
	r.record(fmt.Sprintf("%v %q", op, operand))
}

func (r *Recorder) EmitBranch(op Opcode, target Label) {
	r.record(fmt.Sprintf("%v L%d", op, target))
}

func (r *Recorder) EmitField(op Opcode, field any) {
	r.record(fmt.Sprintf("%v %s", op, handleName(field)))
}

func (r *Recorder) EmitCall(method any) {
	r.record("call " + handleName(method))
}

func (r *Recorder) EmitNewArray(elem types.PrimitiveKind, sizes []int) {
	dims := make([]string, len(sizes))
	for i, s := range sizes {
		dims[i] = strconv.Itoa(s)
	}
	r.record(fmt.Sprintf("newobj %v[%s]", elem, strings.Join(dims, ",")))
}

func (r *Recorder) EmitArrayGet(elem types.PrimitiveKind, rank int) {
	r.record(fmt.Sprintf("call %v[%d].Get", elem, rank))
}

func (r *Recorder) EmitArraySet(elem types.PrimitiveKind, rank int) {
	r.record(fmt.Sprintf("call %v[%d].Set", elem, rank))
}

func (r *Recorder) EndMethod() { r.current = nil }

func (r *Recorder) SetEntryPoint(handle any) {
	r.Entry = handle.(*RecordedMethod)
}

func (r *Recorder) Save(path string) error { return nil }

func (r *Recorder) record(line string) {
	r.current.Code = append(r.current.Code, line)
}

func handleName(h any) string {
	switch h := h.(type) {
	case *RecordedMethod:
		return h.Name
	case *RecordedField:
		return h.Name
	case *meta.MethodDescriptor:
		return h.String()
	case *meta.FieldDescriptor:
		return h.String()
	default:
		return fmt.Sprintf("%v", h)
	}
}
