package runtime

import (
	"errors"
	"testing"

	"github.com/formroute/formroute/pkg/domain"
)

func secureGraph() *domain.FormGraph {
	return &domain.FormGraph{
		ID:         1,
		SecureMode: true,
		Questions: []domain.Question{
			{ID: 1, Position: 0, Payload: "Q1"},
			{ID: 2, Position: 1, Payload: "Q2"},
			{ID: 3, Position: 2, Payload: "Q3"},
			{ID: 9, FinalScreen: true, Payload: "Bye"},
		},
	}
}

func TestSecureQuestion_ByIndex(t *testing.T) {
	graph := secureGraph()

	page, err := SecureQuestion(graph, domain.QuestionRef{Index: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Question.ID != 2 {
		t.Errorf("question id = %d, want 2", page.Question.ID)
	}
	if page.Last {
		t.Error("index 1 of 3 must not be last")
	}
}

func TestSecureQuestion_LastFlag(t *testing.T) {
	graph := secureGraph()

	page, err := SecureQuestion(graph, domain.QuestionRef{Index: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !page.Last {
		t.Error("expected last flag on final sequential question")
	}
}

func TestSecureQuestion_IndexPastEndIsCompleted(t *testing.T) {
	graph := secureGraph()

	// index == len(normalQuestions) is the normal end-of-form signal.
	page, err := SecureQuestion(graph, domain.QuestionRef{Index: 3})
	if err != nil {
		t.Fatalf("completion must not be an error, got %v", err)
	}
	if !page.Completed {
		t.Error("expected completed result")
	}
}

func TestSecureQuestion_ByID(t *testing.T) {
	graph := secureGraph()

	page, err := SecureQuestion(graph, domain.QuestionRef{ByID: true, ID: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Index != 2 {
		t.Errorf("positional index = %d, want 2", page.Index)
	}
}

func TestSecureQuestion_FinalScreenExcludedFromSequence(t *testing.T) {
	graph := secureGraph()

	// The final screen is invisible to index-based traversal.
	for idx := 0; idx < 3; idx++ {
		page, err := SecureQuestion(graph, domain.QuestionRef{Index: idx})
		if err != nil {
			t.Fatalf("index %d: %v", idx, err)
		}
		if page.Question.ID == 9 {
			t.Fatal("final screen leaked into sequential order")
		}
	}

	// But reachable by explicit id with the final flag.
	page, err := SecureQuestion(graph, domain.QuestionRef{ByID: true, ID: 9, Final: true})
	if err != nil {
		t.Fatalf("final by id: %v", err)
	}
	if page.Question.Payload != "Bye" {
		t.Errorf("payload = %q", page.Question.Payload)
	}
}

func TestSecureQuestion_UnknownID(t *testing.T) {
	graph := secureGraph()

	_, err := SecureQuestion(graph, domain.QuestionRef{ByID: true, ID: 404})
	if !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Errorf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestSecureQuestion_RefusesWithoutSecureMode(t *testing.T) {
	graph := secureGraph()
	graph.SecureMode = false

	_, err := SecureQuestion(graph, domain.QuestionRef{Index: 0})
	if !errors.Is(err, domain.ErrSecureModeDisabled) {
		t.Errorf("expected ErrSecureModeDisabled, got %v", err)
	}
}

func TestSecureQuestion_NegativeIndex(t *testing.T) {
	graph := secureGraph()

	_, err := SecureQuestion(graph, domain.QuestionRef{Index: -1})
	if !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Errorf("expected ErrQuestionNotFound, got %v", err)
	}
}
