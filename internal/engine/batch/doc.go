// Package batch fans independent work items out over a bounded number of
// goroutines and gathers the results in input order.
//
// The engine uses it to project the scenarios of a matrix concurrently.
// Each item is evaluated exactly once, results land at the index of the
// item that produced them, and the first error cancels the remaining
// work. Progress can be observed through an optional callback.
package batch
