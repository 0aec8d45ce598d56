// Package ocr extracts text from uploaded images using Tesseract.
// The engine sits behind a small interface so extraction logic and
// upload validation are testable without a Tesseract installation.
package ocr
