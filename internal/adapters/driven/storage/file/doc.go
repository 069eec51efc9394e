// Package file persists pipeline artefacts on the local filesystem.
//
// Processed books and chunk arrays are stored as indented JSON with
// non-ASCII text written verbatim, so the files stay readable for
// Chinese content. Analysis reports are plain UTF-8 text.
package file
