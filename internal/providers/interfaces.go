// Package providers holds the text-generation clients. The pipeline depends
// only on the Generator interface; the OpenAI client and the deterministic
// mock are interchangeable implementations.
package providers

import "context"

type Request struct {
	Model  string `json:"model"`
	Role   string `json:"role"`
	Prompt string `json:"prompt"`
}

type Response struct {
	Text string `json:"text"`
}

// Generator issues one completion call per invocation. Implementations must
// honor the context deadline and return ErrRateLimited (possibly wrapped)
// when the upstream service throttles the call.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
}
