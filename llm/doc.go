// Package llm is a config-driven chat-completion client. Provider wire
// formats live behind the Dialect interface, the way database/sql drivers
// sit behind the sql package.
//
// Import a dialect for its registration side effect and build an adapter:
//
//	import _ "github.com/kbukum/lyrebird/llm/openai"
//
//	adapter, err := llm.New(llm.Config{Dialect: "openai", APIKey: key, Model: "gpt-4o"})
//	text, err := llm.Complete(ctx, adapter, system, user)
//
// Structured output goes through CompleteStructured, which sends a strict
// JSON schema when the dialect supports one and decodes the reply without
// tolerating unknown fields.
package llm
