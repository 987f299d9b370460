package categorize

import "context"

// Request is a single-turn generation request.
type Request struct {
	Model       string
	Prompt      string
	Temperature float64
}

// Backend is the text-generation service the engine talks to. It is the
// only network boundary the engine crosses.
type Backend interface {
	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Models lists the names of the installed models.
	Models(ctx context.Context) ([]string, error)

	// Generate sends the prompt as one user message and returns the raw
	// text of the reply.
	Generate(ctx context.Context, req Request) (string, error)
}
