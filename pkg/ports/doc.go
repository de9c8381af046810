/*
Package ports defines the driven ports (interfaces) for the formroute engine.

These interfaces decouple the core navigation logic from external
implementations, allowing the engine to work with various graph stores,
session backends, and renderers.

# Key Interfaces

  - GraphStore: Transactional persistence of form graphs (save with id remapping).
  - SessionStore: Persistence of per-session variables and answers.
  - DistributedLocker: Per-form locking for concurrent graph saves.
  - Renderer: Opaque question-to-payload presentation.
*/
package ports
