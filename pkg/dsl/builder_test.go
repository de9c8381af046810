package dsl_test

import (
	"testing"

	"github.com/formroute/formroute/pkg/domain"
	"github.com/formroute/formroute/pkg/dsl"
)

func TestBuilder_ScoringQuiz(t *testing.T) {
	graph, err := dsl.New(1).
		Title("scoring quiz").
		Secure().
		DefaultRedirect("https://example.com/thanks").
		Question("Do you like Go?").ID(1).
		When(domain.CondAnswerEquals, "yes").Add("score", 5).
		When(domain.CondAnswerEquals, "yes").Goto(3).
		Question("Why not?").ID(2).
		Question("Favorite package?").ID(3).
		When(domain.CondVariableGreater, "score").Compare("4").Redirect("https://example.com/fans").
		Final("All done.").ID(9).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if !graph.SecureMode {
		t.Error("expected secure mode")
	}
	if len(graph.Questions) != 4 {
		t.Fatalf("questions = %d, want 4", len(graph.Questions))
	}

	q1 := graph.Questions[0]
	if len(q1.Conditions) != 2 {
		t.Fatalf("q1 conditions = %d, want 2", len(q1.Conditions))
	}
	if q1.Conditions[0].Action != domain.ActionAddVariable || q1.Conditions[0].Amount != 5 {
		t.Errorf("first rule = %+v", q1.Conditions[0])
	}
	if q1.Conditions[1].Position != 1 {
		t.Errorf("rule positions must follow call order, got %d", q1.Conditions[1].Position)
	}
	if q1.Conditions[1].ActionValue != "3" {
		t.Errorf("goto target = %q, want \"3\"", q1.Conditions[1].ActionValue)
	}

	normal := graph.Normal()
	if len(normal) != 3 {
		t.Fatalf("normal questions = %d, want 3", len(normal))
	}
	for i, q := range normal {
		if q.Position != i {
			t.Errorf("question %d position = %d", i, q.Position)
		}
	}
}

func TestBuilder_RejectsDanglingGoto(t *testing.T) {
	_, err := dsl.New(1).
		Question("q").ID(1).
		When(domain.CondAnswerEquals, "x").Goto(404).
		Build()
	if err == nil {
		t.Fatal("expected validation error for dangling goto")
	}
}

func TestBuilder_TempIDTargets(t *testing.T) {
	graph, err := dsl.New(1).
		Question("q").ID(1).
		When(domain.CondAnswerEquals, "more").GotoTemp("draft").
		Question("new one").TempID("draft").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if graph.Questions[1].TempID != "draft" {
		t.Errorf("temp id = %q", graph.Questions[1].TempID)
	}
}

func TestBuilder_SetAndMessageRules(t *testing.T) {
	graph, err := dsl.New(1).
		Question("q").ID(1).
		When(domain.CondAnswerEquals, "a").Set("tier", "gold").
		When(domain.CondAnswerEquals, "b").Message("thanks").
		When(domain.CondAnswerEquals, "c").SkipToEnd().
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	conds := graph.Questions[0].Conditions
	if conds[0].Action != domain.ActionSetVariable || conds[0].ComparisonValue != "gold" {
		t.Errorf("set rule = %+v", conds[0])
	}
	if conds[1].Action != domain.ActionShowMessage {
		t.Errorf("message rule = %+v", conds[1])
	}
	if conds[2].Action != domain.ActionSkipToEnd {
		t.Errorf("skip rule = %+v", conds[2])
	}
}
