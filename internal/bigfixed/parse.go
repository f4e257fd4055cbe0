package bigfixed

// SetString sets z from a decimal literal at precision n.
//
// The parser is lenient and goes through a double, so it keeps
// at most about 16 significant digits: leading spaces are skipped, an optional
// '+' or '-' is read, integer digits accumulate as v = v·10 + d, and after a
// '.' each fraction digit adds d·scale with scale stepping 0.1, 0.01, ...
// Parsing stops silently at the first character it does not recognise, so
// "1.5x" reads as 1.5 and "" reads as zero. Use SetFloat64 or SetLimbs for
// exact values.
//
// Returns:
//   - error: ErrOutOfRange when the parsed magnitude is 16 or more, or a
//     precision error for an invalid n.
func (z *Number) SetString(s string, n int) error {
	if err := CheckPrecision(n); err != nil {
		return err
	}

	i := 0
	for i < len(s) && s[i] == ' ' {
		i++
	}
	negative := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		negative = s[i] == '-'
		i++
	}

	var whole float64
	for ; i < len(s) && isDigit(s[i]); i++ {
		whole = whole*10 + float64(s[i]-'0')
	}

	var frac float64
	if i < len(s) && s[i] == '.' {
		i++
		scale := 0.1
		for ; i < len(s) && isDigit(s[i]); i++ {
			frac += float64(s[i]-'0') * scale
			scale *= 0.1
		}
	}

	if err := z.SetFloat64(whole+frac, n); err != nil {
		return err
	}
	if negative && z.sign != Zero {
		z.sign = Negative
	}
	return nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
