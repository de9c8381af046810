/*
Package formroute is a conditional navigation engine for multi-step forms
and quizzes: traversal order depends on runtime answers and accumulated
session variables.

Each question carries an ordered rule list pairing a test (against the
answer or a variable) with an action (jump, terminate, redirect, mutate a
variable, show a message). Resolving an answer applies every matching
rule; the last matching navigation rule decides the destination, and when
none fire the form advances sequentially. Graph edits persist through a
transactional save that assigns real ids to new questions and rewrites
rules referencing them by temporary id, so a graph with forward
references is never stored dangling.

# Usage

	store := memory.NewGraphStore()
	store.Seed(graph)

	eng := formroute.New(store,
		formroute.WithSessions(memory.NewSessionStore()),
	)

	out, err := eng.Answer(ctx, formID, "session-123", questionID, "yes")
	if err != nil {
		log.Fatal(err)
	}
	if out.Completed {
		_, url, _ := eng.Submit(ctx, formID, "session-123")
		fmt.Println("redirect to", url)
	}

Durable adapters live under pkg/adapters: sqlite for the graph store,
redis for sessions and distributed locking, http for the secure
single-question gateway.
*/
package formroute
