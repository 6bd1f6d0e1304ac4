// Package types defines the entity model shared by the local store, the
// remote client and the reconciliation engine: the six record kinds, the
// metadata every record carries, and the sentinel errors returned by store
// operations.
package types
