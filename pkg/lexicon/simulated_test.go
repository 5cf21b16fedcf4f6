package lexicon

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSimulatedServesDefaultEntries(t *testing.T) {
	provider := NewSimulated(SimulatedConfig{})

	entries, err := provider.GetLexicon(context.Background(), "anything")
	if err != nil {
		t.Fatalf("GetLexicon() error = %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected default entries, got none")
	}

	found := false
	for _, e := range entries {
		for _, p := range e.Phrases {
			if p == "chek order" {
				found = true
				if e.Task != "CheckOrderStatusTask" {
					t.Errorf("phrase %q maps to %q, want CheckOrderStatusTask", p, e.Task)
				}
			}
		}
	}
	if !found {
		t.Error("expected default lexicon to carry the 'chek order' typo variant")
	}
}

func TestSimulatedNormalizesCustomEntries(t *testing.T) {
	provider := NewSimulated(SimulatedConfig{
		Entries: []Entry{
			{Task: "CheckOrderStatusTask", Phrases: []string{"  Chek   ORDER  ", "Où est ma commande"}},
		},
	})

	entries, err := provider.GetLexicon(context.Background(), "x")
	if err != nil {
		t.Fatalf("GetLexicon() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	want := []string{"chek order", "ou est ma commande"}
	got := entries[0].Phrases
	if len(got) != len(want) {
		t.Fatalf("got %d phrases, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("phrase[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFailureRate(t *testing.T) {
	always := NewSimulated(SimulatedConfig{Failures: FailureRate(1.0)})
	_, err := always.GetLexicon(context.Background(), "x")
	if err == nil {
		t.Fatal("expected failure with rate 1.0")
	}
	if class := ClassOf(err); class != ErrorClassUpstream {
		t.Errorf("ClassOf() = %v, want %v", class, ErrorClassUpstream)
	}

	never := NewSimulated(SimulatedConfig{Failures: FailureRate(0)})
	for i := 0; i < 50; i++ {
		if _, err := never.GetLexicon(context.Background(), "x"); err != nil {
			t.Fatalf("unexpected failure with rate 0: %v", err)
		}
	}
}

func TestFailN(t *testing.T) {
	provider := NewSimulated(SimulatedConfig{Failures: FailN(2, ErrorClassNetwork)})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := provider.GetLexicon(ctx, "x")
		if err == nil {
			t.Fatalf("call %d: expected injected failure", i+1)
		}
		if class := ClassOf(err); class != ErrorClassNetwork {
			t.Errorf("call %d: ClassOf() = %v, want %v", i+1, class, ErrorClassNetwork)
		}
	}

	entries, err := provider.GetLexicon(ctx, "x")
	if err != nil {
		t.Fatalf("call 3: expected recovery, got %v", err)
	}
	if len(entries) == 0 {
		t.Error("call 3: expected entries after recovery")
	}
}

func TestSimulatedLatencyHonorsContext(t *testing.T) {
	provider := NewSimulated(SimulatedConfig{Latency: 500 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := provider.GetLexicon(ctx, "x")
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected timeout error")
	}
	if class := ClassOf(err); class != ErrorClassTimeout {
		t.Errorf("ClassOf() = %v, want %v", class, ErrorClassTimeout)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline cause, got %v", err)
	}
	if elapsed > 300*time.Millisecond {
		t.Errorf("call took %v, should abandon well before the full latency", elapsed)
	}
}
