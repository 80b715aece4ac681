// Package scoring holds the pure grading and attendance arithmetic of the gradebook:
// percentage and letter-grade derivation, averages, attendance rates and summaries.
// Nothing in this package performs I/O; callers fetch a snapshot from the record store
// and pass it in.
package scoring
