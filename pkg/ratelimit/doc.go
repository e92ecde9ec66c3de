// Package ratelimit limits how often a client may upload exports.
//
// SlidingWindow tracks requests within a moving time window. Registry keeps
// one SlidingWindow per key in a bounded, expiring cache so idle clients do
// not pin memory.
//
// Usage:
//
//	uploads := ratelimit.NewRegistry(1024, 30, time.Minute)
//
//	l := uploads.Get("upload:" + clientIP)
//	if !l.Allow() {
//	    // reject, retry after l.RetryAfter()
//	}
package ratelimit
