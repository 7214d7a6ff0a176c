// Package audio assembles synthesized clips into finished audiobook files.
//
// Assembly interleaves clips with silence for pauses, concatenates them into
// one track per output file, then masters the track: loudness normalization,
// fades, metadata, and the final MP3 encode. Files are produced in the work
// directory and moved to the output directory only after every file has
// mastered successfully, so a failed or cancelled run never leaves partial
// output at the final paths.
package audio
