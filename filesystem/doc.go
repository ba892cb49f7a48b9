// Package filesystem exposes the host filesystem through a small set of
// stateless operations: path resolution, copy and link creation, metadata
// queries, type predicates, mutation and whole-file reads and writes.
//
// Every operation that can fail returns an error as its last value. That error
// is always an *Error carrying one of the ErrorCode classifications along with
// the raw errno reported by the kernel, so callers can branch on the coarse
// code with IsErrorCode and still log the exact cause. Nothing in this package
// retries, caches or locks; two calls racing on the same path race in the
// kernel exactly as two system calls would.
package filesystem
