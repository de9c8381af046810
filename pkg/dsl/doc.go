/*
Package dsl provides a fluent builder for form graphs, mainly for tests
and programmatic form setup where authoring a YAML file is overkill.

	graph, err := dsl.New(1).
		Title("onboarding").
		Secure().
		Question("Do you like Go?").ID(1).
			When(domain.CondAnswerEquals, "yes").Add("score", 5).
			When(domain.CondAnswerEquals, "yes").Goto(3).
		Question("Why not?").ID(2).
		Question("Favorite package?").ID(3).
			When(domain.CondVariableGreater, "score").Compare("4").Redirect("https://example.com/fans").
		Final("All done.").ID(9).
		Build()

Build validates the graph, so a dangling goto target or an unknown rule
type fails at construction time rather than at runtime.
*/
package dsl
