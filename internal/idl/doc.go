// Package idl models an Anchor program IDL document.
//
// # Data model
//
// Document is the root. It is produced once (by the engine or by Parse) and
// treated as read-only afterwards by the validator and the reporters.
//
// Two variant sets are modelled as sealed interfaces with one Go type per
// variant:
//
//   - Type: Scalar, Option, COption, Vec, Array, Defined, Generic and Unknown.
//     Unknown keeps the raw JSON of forms this package does not recognise so
//     that newer documents survive a decode/encode cycle.
//   - AccountItem: *Account (a single account requirement) and *Composite (a
//     named, ordered group of items that may nest arbitrarily deep).
//
// Consumers switch over the concrete types; a default branch is required.
//
// # Wire format
//
// JSON follows the current Anchor IDL layout (metadata.spec "0.1.0").
// Discriminators and constant seeds are arrays of integers, never base64.
// Encoding and decoding go through github.com/goccy/go-json.
package idl
