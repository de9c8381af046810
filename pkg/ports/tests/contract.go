package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/formroute/formroute/pkg/domain"
	"github.com/formroute/formroute/pkg/ports"
)

// RunSessionStoreContract is a reusable suite that verifies an adapter
// complies with ports.SessionStore semantics.
func RunSessionStoreContract(t *testing.T, store ports.SessionStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-session")
		if !errors.Is(err, domain.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Save_Load_RoundTrip", func(t *testing.T) {
		sess := domain.NewSession("contract-1", 7)
		sess.Variables.Set("score", float64(12))
		sess.Variables.Set("tier", "gold")
		sess.Answers[3] = "yes"
		sess.Steps = 2

		if err := store.Save(ctx, sess.ID, sess); err != nil {
			t.Fatalf("save: %v", err)
		}

		got, err := store.Load(ctx, sess.ID)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if got.FormID != 7 {
			t.Errorf("form id = %d, want 7", got.FormID)
		}
		if n, _ := got.Variables.Number("score"); n != 12 {
			t.Errorf("score = %v, want 12", n)
		}
		if got.Variables.String("tier") != "gold" {
			t.Errorf("tier = %q, want gold", got.Variables.String("tier"))
		}
		if got.Answers[3] != "yes" {
			t.Errorf("answer = %q, want yes", got.Answers[3])
		}
		if got.Steps != 2 {
			t.Errorf("steps = %d, want 2", got.Steps)
		}
	})

	t.Run("Save_Isolation", func(t *testing.T) {
		sess := domain.NewSession("contract-iso", 1)
		sess.Variables.Set("v", "a")
		if err := store.Save(ctx, sess.ID, sess); err != nil {
			t.Fatalf("save: %v", err)
		}

		// Mutating the original after save must not affect the stored copy.
		sess.Variables.Set("v", "b")

		got, err := store.Load(ctx, "contract-iso")
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if got.Variables.String("v") != "a" {
			t.Errorf("stored value mutated through caller pointer: %q", got.Variables.String("v"))
		}
	})

	t.Run("List", func(t *testing.T) {
		ids, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		lookup := make(map[string]bool, len(ids))
		for _, id := range ids {
			lookup[id] = true
		}
		if !lookup["contract-1"] {
			t.Error("contract-1 missing from list")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, "contract-1"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		_, err := store.Load(ctx, "contract-1")
		if !errors.Is(err, domain.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
		}

		// Delete is idempotent.
		if err := store.Delete(ctx, "contract-1"); err != nil {
			t.Errorf("second delete: %v", err)
		}
	})
}
