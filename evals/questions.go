package evals

// DefaultEvalQuestions is the built-in evaluation set. It mixes semantic
// queries (vector strength), exact-match queries (keyword strength), and
// conceptual queries where fusion should win. Callers with a product-specific
// question set override it with WithQuestions.
var DefaultEvalQuestions = []string{
	// Semantic queries (vector strength)
	"How do I set up webhooks?",
	"user authentication not working",
	"how to reset a password",
	"what happens after a task fails",
	// Exact match queries (keyword strength)
	"GET /api/users",
	"POST /webhooks",
	"admin role permissions",
	"API rate limits",
	// Conceptual queries (hybrid strength)
	"What permissions does an admin have?",
	"configure notification settings",
	"export user data",
}

// DefaultTestQueries is a short set for quick retrieval comparisons.
var DefaultTestQueries = []string{
	"GET /api/events",        // exact API route, keyword strength
	"user can't export data", // semantic meaning, vector strength
	"webhook configuration",  // mix of both
}
