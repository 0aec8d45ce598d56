// Package llm generates scientific hypotheses by prompting a
// chat-completion API with a historical observation and a modern study.
// Generated text is normalized into a single clean prose statement
// before it reaches callers or the graph.
package llm
