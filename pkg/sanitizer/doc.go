// Package sanitizer normalizes user-supplied values before validation and
// storage.
//
// All functions are idempotent and never return errors: invalid input yields
// an empty string.
//
// Normalization includes:
//   - Phone numbers: E.164 format (+[country][number]) for SMS delivery
//   - Free text: control characters stripped, whitespace collapsed, length capped
//   - URLs: trailing slashes removed, paths joined onto a public base URL
package sanitizer
