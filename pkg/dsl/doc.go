/*
Package dsl provides a fluent builder for pipelines.

It builds the same wire payload the canvas submits, without hand-writing
handle ids, which is handy for tests, examples and generated pipelines.

Example usage:

	b := dsl.New()

	b.Add("customInput-1").
		Kind(domain.KindInput).
		Wire("value", "text-1", "question")

	b.Add("text-1").
		Kind(domain.KindText).
		Set(domain.TextField, "Answer {{question}}").
		Wire("output", "llm-1", "prompt")

	b.Add("llm-1").Kind(domain.KindLLM)

	p := b.Pipeline()           // domain.Pipeline, ready to submit
	store, err := b.Build()     // or a memory store to edit
*/
package dsl
