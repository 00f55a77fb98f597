// Package session provides the in-memory conversation session store.
//
// A Session identifies one multi-turn exchange with a client and carries at
// most one pending clarification at a time. Sessions expire lazily after a
// fixed inactivity window: there is no background sweep, expiry is discovered
// on the next access. The store is safe for concurrent use; operations on
// distinct sessions never contend on the same lock.
package session
