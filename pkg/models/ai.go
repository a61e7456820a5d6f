// Package models contains shared data models used across the brewlog codebase.
package models

import "context"

// AnalysisProvider is the interface all language-model integrations implement.
// Never call a specific provider directly, always inject this interface.
type AnalysisProvider interface {
	// Analyze asks the model for significant factors and next-brew
	// suggestions over the whole experiment log.
	Analyze(ctx context.Context, log []Experiment) (AnalysisResult, error)
	// Name returns the provider identifier (e.g., "gemini", "mock").
	Name() string
}
