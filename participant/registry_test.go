package participant

import (
	"errors"
	"testing"
)

func TestLoseLifeStopsAtZero(t *testing.T) {
	r := NewRegistry(9)
	if _, err := r.Add("p1", "one", false); err != nil {
		t.Fatalf("Add: %v", err)
	}

	for i := 0; i < 9; i++ {
		if _, err := r.LoseLife("p1"); err != nil {
			t.Fatalf("LoseLife %d: %v", i, err)
		}
	}
	p, _ := r.Get("p1")
	if p.Lives != 0 {
		t.Fatalf("lives after 9 losses = %d, want 0", p.Lives)
	}

	lives, err := r.LoseLife("p1")
	if err != nil {
		t.Fatalf("10th LoseLife: %v", err)
	}
	if lives != 0 {
		t.Fatalf("lives after 10th loss = %d, want 0", lives)
	}
}

func TestResetLives(t *testing.T) {
	r := NewRegistry(9)
	r.Add("p1", "one", false)
	r.Add("p2", "two", false)
	r.LoseLife("p1")
	r.LoseLife("p2")

	if err := r.ResetLives("p1"); err != nil {
		t.Fatalf("ResetLives: %v", err)
	}
	if p, _ := r.Get("p1"); p.Lives != 9 {
		t.Fatalf("p1 lives = %d, want 9", p.Lives)
	}
	if p, _ := r.Get("p2"); p.Lives != 8 {
		t.Fatalf("p2 lives = %d, want 8", p.Lives)
	}

	r.ResetAll()
	if p, _ := r.Get("p2"); p.Lives != 9 {
		t.Fatalf("p2 lives after ResetAll = %d, want 9", p.Lives)
	}
}

func TestReadinessAndCounts(t *testing.T) {
	r := NewRegistry(9)
	r.Add("p1", "one", false)
	r.Add("p2", "two", false)
	r.Add("p3", "three", false)

	r.SetReady("p1", true)
	if ready, _ := r.ToggleReady("p2"); !ready {
		t.Fatal("toggle from unready should make ready")
	}
	connected, ready := r.Counts()
	if connected != 3 || ready != 2 {
		t.Fatalf("counts = (%d, %d), want (3, 2)", connected, ready)
	}

	r.SetReady("p1", false)
	if _, ready := r.Counts(); ready != 1 {
		t.Fatalf("ready = %d, want 1", ready)
	}
}

func TestAddRemoveKeepsJoinOrder(t *testing.T) {
	r := NewRegistry(9)
	r.Add("a", "", false)
	r.Add("b", "", false)
	r.Add("c", "", false)

	if _, err := r.Add("b", "", false); !errors.Is(err, ErrDuplicateParticipant) {
		t.Fatalf("duplicate Add err = %v", err)
	}
	if err := r.Remove("b"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := r.Remove("b"); !errors.Is(err, ErrUnknownParticipant) {
		t.Fatalf("second Remove err = %v", err)
	}

	all := r.All()
	if len(all) != 2 || all[0].ID != "a" || all[1].ID != "c" {
		t.Fatalf("order = %+v, want a, c", all)
	}
}

func TestMirrorRejectsMutation(t *testing.T) {
	m := NewMirror(9)

	if _, err := m.Add("p1", "", false); !errors.Is(err, ErrNotAuthoritative) {
		t.Fatalf("Add err = %v", err)
	}
	if err := m.Apply(Participant{ID: "p1", Lives: 4}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	t.Run("SetReady", func(t *testing.T) {
		if err := m.SetReady("p1", true); !errors.Is(err, ErrNotAuthoritative) {
			t.Fatalf("err = %v", err)
		}
	})
	t.Run("LoseLife", func(t *testing.T) {
		if _, err := m.LoseLife("p1"); !errors.Is(err, ErrNotAuthoritative) {
			t.Fatalf("err = %v", err)
		}
	})
	t.Run("ResetLives", func(t *testing.T) {
		if err := m.ResetLives("p1"); !errors.Is(err, ErrNotAuthoritative) {
			t.Fatalf("err = %v", err)
		}
	})

	if p, _ := m.Get("p1"); p.Lives != 4 || p.Ready {
		t.Fatalf("mirror entry changed: %+v", p)
	}

	if err := NewRegistry(9).Apply(Participant{ID: "x"}); !errors.Is(err, ErrNotAuthoritative) {
		t.Fatalf("authoritative Apply err = %v", err)
	}
}

func TestUnknownParticipant(t *testing.T) {
	r := NewRegistry(9)
	if err := r.SetReady("ghost", true); !errors.Is(err, ErrUnknownParticipant) {
		t.Fatalf("err = %v", err)
	}
}
