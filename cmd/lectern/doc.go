// Command lectern turns text documents into narrated audiobooks using a cloud
// text-to-speech provider and ffmpeg.
package main
