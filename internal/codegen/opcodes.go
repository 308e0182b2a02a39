package codegen

// Opcode values follow the target format's instruction encoding; two-byte
// instructions carry the 0xFE prefix in the high byte.
type Opcode uint16

const (
	Nop      Opcode = 0x00
	Dup      Opcode = 0x25
	Pop      Opcode = 0x26
	Call     Opcode = 0x28
	Ret      Opcode = 0x2A
	Br       Opcode = 0x38
	Brfalse  Opcode = 0x39
	Brtrue   Opcode = 0x3A
	Bgt      Opcode = 0x3D
	Blt      Opcode = 0x3F
	Ldc_I4_0 Opcode = 0x16
	Ldc_I4_1 Opcode = 0x17
	Ldc_I4_2 Opcode = 0x18
	Ldc_I4_3 Opcode = 0x19
	Ldc_I4_4 Opcode = 0x1A
	Ldc_I4_5 Opcode = 0x1B
	Ldc_I4_6 Opcode = 0x1C
	Ldc_I4_7 Opcode = 0x1D
	Ldc_I4_8 Opcode = 0x1E
	Ldc_I4   Opcode = 0x20
	Ldc_R8   Opcode = 0x23
	Ldstr    Opcode = 0x72
	Add      Opcode = 0x58
	Sub      Opcode = 0x59
	Mul      Opcode = 0x5A
	Div      Opcode = 0x5B
	Rem      Opcode = 0x5D
	Xor      Opcode = 0x61
	Neg      Opcode = 0x65
	Conv_I4  Opcode = 0x69
	Conv_R8  Opcode = 0x6C
	Ldsfld   Opcode = 0x7E
	Stsfld   Opcode = 0x80
	Newobj   Opcode = 0x73
	Ceq      Opcode = 0xFE01
	Cgt      Opcode = 0xFE02
	Clt      Opcode = 0xFE04
	Ldarg    Opcode = 0xFE09
	Starg    Opcode = 0xFE0B
	Ldloc    Opcode = 0xFE0C
	Stloc    Opcode = 0xFE0E
)

var opcodeNames = map[Opcode]string{
	Nop:      "nop",
	Dup:      "dup",
	Pop:      "pop",
	Call:     "call",
	Ret:      "ret",
	Br:       "br",
	Brfalse:  "brfalse",
	Brtrue:   "brtrue",
	Bgt:      "bgt",
	Blt:      "blt",
	Ldc_I4_0: "ldc.i4.0",
	Ldc_I4_1: "ldc.i4.1",
	Ldc_I4_2: "ldc.i4.2",
	Ldc_I4_3: "ldc.i4.3",
	Ldc_I4_4: "ldc.i4.4",
	Ldc_I4_5: "ldc.i4.5",
	Ldc_I4_6: "ldc.i4.6",
	Ldc_I4_7: "ldc.i4.7",
	Ldc_I4_8: "ldc.i4.8",
	Ldc_I4:   "ldc.i4",
	Ldc_R8:   "ldc.r8",
	Ldstr:    "ldstr",
	Add:      "add",
	Sub:      "sub",
	Mul:      "mul",
	Div:      "div",
	Rem:      "rem",
	Xor:      "xor",
	Neg:      "neg",
	Conv_I4:  "conv.i4",
	Conv_R8:  "conv.r8",
	Ldsfld:   "ldsfld",
	Stsfld:   "stsfld",
	Newobj:   "newobj",
	Ceq:      "ceq",
	Cgt:      "cgt",
	Clt:      "clt",
	Ldarg:    "ldarg",
	Starg:    "starg",
	Ldloc:    "ldloc",
	Stloc:    "stloc",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "unknown"
}

// shortIntLoads indexes the single-byte forms for small constants.
var shortIntLoads = [...]Opcode{
	Ldc_I4_0, Ldc_I4_1, Ldc_I4_2, Ldc_I4_3, Ldc_I4_4,
	Ldc_I4_5, Ldc_I4_6, Ldc_I4_7, Ldc_I4_8,
}
