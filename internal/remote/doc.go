// Package remote is the per-user cloud replica of the local store. Each
// record kind is one document collection; a document's id is
// {userID}_{entityID} and its fields are the record's attributes flattened
// into snake_case keys.
//
// Client is implemented by SurrealClient for a SurrealDB server and by
// MemoryClient for tests and offline runs. Every failure is returned as an
// *Error carrying a Code; nothing is retried.
package remote
