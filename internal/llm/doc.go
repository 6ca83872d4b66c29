// Package llm talks to hosted language models for financial advice and
// spending analysis. It supports OpenAI-compatible providers (OpenAI, xAI,
// Groq) and Anthropic, with retry logic, rate limiting, and response caching.
package llm
