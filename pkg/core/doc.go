// Package core defines the shared language of the LeapProse system.
//
// This package contains:
//   - Severity levels shared by checks, findings, and configuration
//   - Introspection DTOs (CheckInfo)
//
// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
// All other packages depend on core, not the reverse.
package core
