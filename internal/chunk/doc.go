// Package chunk prepares chapter text for synthesis.
//
// The chunker expands abbreviations, splits chapters into sentences, and packs
// sentences into segments that fit the provider's request size limit. Each
// segment carries the pause the assembler inserts after it. Optional SSML
// markup wraps segments with break tags and number spelling hints.
package chunk
