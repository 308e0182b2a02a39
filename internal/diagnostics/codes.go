package diagnostics

// Diagnostic codes, grouped by the phase that raises them.
const (
	// Scanner errors (L prefix)
	ErrCannotOpen         = "L0001"
	ErrInvalidBOM         = "L0002"
	ErrUnterminatedString = "L0003"
	ErrBadEscape          = "L0004"
	ErrBufferOutOfBounds  = "L0005"
	ErrBadIdentEscape     = "L0006"
	ErrUnterminatedBlock  = "L0007"

	// Parser errors (P prefix)
	ErrUnexpectedToken = "P0001"
	ErrExpectedToken   = "P0002"
	ErrInvalidType     = "P0003"

	// Semantic errors (T prefix)
	ErrUndefinedSymbol   = "T0001"
	ErrRedeclaredSymbol  = "T0002"
	ErrTypeMismatch      = "T0003"
	ErrInvalidOperation  = "T0004"
	ErrNotIndexable      = "T0005"
	ErrWrongRank         = "T0006"
	ErrIndexNotInt       = "T0007"
	ErrUnresolvedCall    = "T0008"
	ErrAmbiguousCall     = "T0009"
	ErrInvalidCast       = "T0010"
	ErrInvalidAssignment = "T0011"
	ErrInvalidConstant   = "T0012"
	ErrInvalidReturn     = "T0013"
	ErrMissingReturn     = "T0014"

	// Warnings (W prefix)
	WarnUnreachableCode = "W0001"
	WarnRedundantCast   = "W0002"
)
