// Package services implements the driving port interfaces.
//
// IndexingService runs extract, chunk and embed. RetrievalService answers
// similarity queries, AnalysisService builds character reports on top of it,
// and SettingsService and StatusService back the config and doctor commands.
//
// Services are pure Go and reach the outside world only through driven ports.
package services
