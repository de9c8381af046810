/*
Package domain contains the core domain models for the formroute engine.

It defines the fundamental entities of conditional form navigation, such as
Questions, Conditions, and the session Variables store. This package is kept
pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Question: One step in a form; sequential or an out-of-band final screen.
  - Condition: A rule pairing a test (answer/variable) with an action.
  - Variables: The session-scoped value bag mutated by condition actions.
  - NavigationResult: The outcome of resolving one question's conditions.
  - FormGraph: A read-only snapshot of a form and its questions.
*/
package domain
