/*
Package ports defines the driven ports (interfaces) of the pipeline editor.

These interfaces decouple the node schema engine from the place where the
graph lives, so the same engine can run against an in-process canvas, a shared
Redis canvas, or a test double.

# Key Interfaces

  - FieldStore: per-instance field values with read-your-writes semantics.
  - GraphStore: the graph-state container (nodes, edges, field values).
  - EdgePruner: drops edges into input ports that no longer exist.
  - DistributedLocker: serializes edits to one instance across replicas.
*/
package ports
