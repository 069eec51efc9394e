// Package html turns e-book XHTML documents into clean chapter text.
// It strips tags, scripts and styles, decodes entities, then removes the
// page-number and URL artefacts common in scanned Chinese novels and
// normalises quote characters.
package html
