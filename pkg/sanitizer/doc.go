// Package sanitizer normalises user input before it is validated or stored.
//
// Helpers are small pure functions over strings, so they can be chained with
// Apply or Compose:
//
//	clean := sanitizer.Compose(sanitizer.Trim, sanitizer.RemoveExtraWhitespace)
//	name := clean("  Alice   Smith ") // "Alice Smith"
//
// E-mail and phone helpers produce the canonical form used for uniqueness
// checks (NormalizeEmail, NormalizePhone) and the masked form used in logs
// (MaskEmail, MaskPhone). NormalizeName applies Unicode NFC composition via
// golang.org/x/text so visually identical names compare equal.
//
// None of the helpers returns an error. They fall back to the original input
// when it cannot be interpreted.
package sanitizer
