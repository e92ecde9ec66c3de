// Package session holds per-browser analysis state in memory.
//
// A session is created on the first request without a valid cookie and
// carries the uploaded follower and following sets plus the last result.
// Nothing is written to disk; sessions vanish on expiry, eviction or restart.
package session
