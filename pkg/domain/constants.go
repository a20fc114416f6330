package domain

// Built-in node kinds, keyed the way the canvas palette names them.
const (
	KindInput     = "customInput"
	KindOutput    = "customOutput"
	KindLLM       = "llm"
	KindText      = "text"
	KindAPI       = "api"
	KindDatabase  = "database"
	KindTransform = "transform"
	KindFilter    = "filter"
	KindMerge     = "merge"
)

// TextField is the storage key of the template node's text.
const TextField = "text"

// DAGWarning is shown when a submitted pipeline contains cycles.
const DAGWarning = "Warning: Your pipeline contains cycles. A valid pipeline should be a DAG."
