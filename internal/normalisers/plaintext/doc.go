// Package plaintext extracts chapters from novels distributed as plain text.
//
// Chinese web novels are usually shipped as a single .txt file, often in
// GB18030 rather than UTF-8. The file is decoded, split at lines that open
// with a chapter heading and each section becomes one chapter.
package plaintext
