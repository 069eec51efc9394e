package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible
	// default or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptAnalysisSystem is the system instruction for character analysis.
	// Placeholders: %[1]s book title, %[2]s character name, %[3]s author.
	PromptAnalysisSystem = "analysis_system"

	// PromptAnalysisUser wraps the retrieved chapter context.
	// Placeholders: %[1]s book title, %[2]s character name, %[3]s context.
	PromptAnalysisUser = "analysis_user"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service uses its embedded default prompts.
	SetPromptStore(store PromptStore)
}
