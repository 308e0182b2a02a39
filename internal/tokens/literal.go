package tokens

import "strconv"

// ParseIntLiteral converts an integer literal lexeme, decimal or 0x hex,
// to its value. A leading zero stays decimal; the language has no octal
// form.
func ParseIntLiteral(text string) (int32, error) {
	base, digits := 10, text
	if len(text) > 2 && (text[:2] == "0x" || text[:2] == "0X") {
		base, digits = 16, text[2:]
	}
	n, err := strconv.ParseInt(digits, base, 32)
	if err != nil {
		// strconv clamps on overflow; malformed constants are uniformly zero.
		return 0, err
	}
	return int32(n), nil
}
