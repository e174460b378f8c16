// Package ir provides the value and configuration types shared by every
// gensweep package.
//
// This package contains type definitions and their serialization only.
// All other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Values are comparable scalars (String, Int, Bool) so they can key maps
//   - NO float types anywhere - use Int for numbers
//   - Canonical JSON (RFC 8785) is the only serialization used for
//     fixtures, golden files and content-addressed IDs
package ir
