// Package epub extracts ordered chapters from EPUB containers.
//
// An EPUB is a zip archive whose META-INF/container.xml points at an OPF
// package document. The OPF carries Dublin Core metadata and a manifest
// of content documents. Each XHTML document becomes at most one chapter:
// documents shorter than a threshold are skipped, and a chapter heading
// found in the first lines advances the chapter counter.
package epub
