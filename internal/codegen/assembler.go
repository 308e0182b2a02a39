package codegen

import "csr/internal/types"

// Label identifies a branch target inside the method being assembled.
type Label int

// Assembler is the bytecode-production capability the generator drives.
// Handles returned by the declaration calls are opaque; the generator
// stores them on the declarations and passes them back during emission.
// Implementations include the binary container builder and the recording
// assembler used by tests.
type Assembler interface {
	// Begin names the output assembly after the program.
	Begin(name string)

	// DeclareMethod reserves a global static method handle.
	DeclareMethod(name string, params []types.Type, ret types.Type) any

	// DeclareStaticField reserves a public static field on the globals
	// holder type.
	DeclareStaticField(name string, t types.Type) any

	// DeclareInitializer reserves the static initializer that instantiates
	// array-typed globals before entry.
	DeclareInitializer() any

	BeginMethod(handle any, locals []types.Type)
	NewLabel() Label
	MarkLabel(l Label)
	Emit(op Opcode)
	EmitInt(op Opcode, operand int32)
	EmitDouble(op Opcode, operand float64)
	EmitString(op Opcode, operand string)
	EmitBranch(op Opcode, target Label)
	EmitField(op Opcode, field any)
	EmitCall(method any)

	// EmitNewArray instantiates a rectangular array via its constructor.
	EmitNewArray(elem types.PrimitiveKind, sizes []int)
	// EmitArrayGet reads an element; the array and one index per dimension
	// are on the stack.
	EmitArrayGet(elem types.PrimitiveKind, rank int)
	// EmitArraySet writes an element; the array, the indices, and the value
	// are on the stack.
	EmitArraySet(elem types.PrimitiveKind, rank int)
	EndMethod()

	SetEntryPoint(handle any)

	// Save persists the executable artifact.
	Save(path string) error
}
