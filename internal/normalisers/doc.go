// Package normalisers turns e-book files into chapters.
//
// Each sub-package handles one container format. Registry dispatches on the
// file extension so the indexing pipeline accepts any registered format.
package normalisers
