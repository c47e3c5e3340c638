package agent

import "context"

// Emitter receives progress text while a request is being processed.
// The api package binds it to an SSE stream; tests collect chunks in memory.
//
// A Chunk error means the caller is gone; the pipeline stops early.
type Emitter interface {
	Chunk(ctx context.Context, text string) error
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(ctx context.Context, text string) error

// Chunk implements Emitter.
func (f EmitterFunc) Chunk(ctx context.Context, text string) error {
	return f(ctx, text)
}
