// Package buslabel converts arbitrary identifiers to and from D-Bus object
// path segments.
//
// A segment may only contain [A-Za-z0-9_]. Every other byte of an identifier
// is written as "_" followed by two lowercase hex digits, so "org.example.App"
// becomes "org_2eexample_2eApp". The empty identifier is written as "_".
//
// Decoding is strict: a "_" that is not followed by two hex digits is a
// *DecodeError rather than a literal underscore.
//
// Example Usage:
//
//	segment := buslabel.Encode("com.endlessm.animals.en")
//	id, err := buslabel.Decode(segment)
//	path := buslabel.ObjectPath("/com/endlessm/EknServices3/SearchProviderV3", id)
package buslabel
