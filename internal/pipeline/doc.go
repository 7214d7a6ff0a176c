// Package pipeline runs the whole generation flow: read, segment, chunk,
// synthesize, assemble.
//
// Synthesis fans out across a bounded worker pool under a shared rate limit;
// results land in sequence-addressed slots so output order never depends on
// completion order. The first failure cancels the rest of the run. A file lock
// on the work directory keeps concurrent runs from interleaving output.
package pipeline
