/*
Package domain contains the core domain models of the pipeline canvas.

It defines the static description of node kinds, the renderable projection the
canvas draws, and the wire payload exchanged with the validation backend. This
package is kept pure and free of external dependencies like I/O or persistence,
following Hexagonal Architecture principles.

# Key Entities

  - NodeSchema: The immutable, author-defined description of one node kind (fields, ports, style).
  - RenderedNode: The projection of a schema plus the current field values of one node instance.
  - Pipeline: The wire payload (nodes + edges) submitted for validation.
  - ParseResult: The validation backend's answer (counts and DAG flag).
*/
package domain
