// Package services hosts clients for the external collaborators the pipeline
// drives (cloud text-to-speech, ffmpeg, pdftotext) along with the shared error
// markers used to classify failures across pipeline stages.
package services
