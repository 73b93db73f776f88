// Package descriptor contains the normalized, immutable records that sit
// between scanning and rendering. A Class describes one C# type that has at
// least one marked field, and a Property describes the public property
// generated for one of those fields.
//
// Descriptors are decoupled from the syntax trees and symbols they were
// built from, so a renderer never needs access to the front end.
package descriptor
