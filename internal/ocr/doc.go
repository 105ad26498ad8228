// Package ocr recognizes the source text inside a selected region.
//
// Recognition goes through a Recognizer. The production recognizer is a
// long-lived Tesseract client (gosseract/v2); tests substitute fakes. A Slot
// owns the single live recognizer for a session, creates it on first use and
// swaps it when the OCR language changes.
//
// # Prerequisites
//
// Tesseract and the trained data for each language must be installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-jpn
//   - macOS: brew install tesseract tesseract-lang
//
// Set MANGA_OVERLAY_TESSDATA to use a tessdata directory other than the
// system default. Builds without cgo compile, but every recognizer fails to
// initialize.
package ocr
