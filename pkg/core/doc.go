// Package core defines the shared language of the Tapdeck system.
//
// This package contains:
//   - Domain entities (Workspace, Shape, StatementRow, Namespace, Folder)
//   - Service interfaces (Store, Invalidator, LockPolicy)
//   - Naming-convention constants shared by the converters
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
