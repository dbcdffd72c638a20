package async

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestResult_ZeroValueIsLoading(t *testing.T) {
	var r Result[string]
	if !r.IsLoading() {
		t.Errorf("Expected zero Result to be loading, got %s", r.State)
	}
	if r.IsResolved() || r.IsFailed() {
		t.Error("Expected zero Result to be neither resolved nor failed")
	}
}

func TestGroup_JoinsIndependentSources(t *testing.T) {
	t.Run("both sources resolve", func(t *testing.T) {
		var grp Group
		ctx := context.Background()

		a := Go(&grp, ctx, func(context.Context) (int, error) {
			time.Sleep(5 * time.Millisecond)
			return 7, nil
		})
		b := Go(&grp, ctx, func(context.Context) (string, error) {
			return "tech@example.com", nil
		})
		grp.Wait()

		if !a.IsResolved() || a.Value != 7 {
			t.Errorf("Expected a resolved to 7, got %s %v", a.State, a.Value)
		}
		if !b.IsResolved() || b.Value != "tech@example.com" {
			t.Errorf("Expected b resolved to tech@example.com, got %s %v", b.State, b.Value)
		}
	})

	t.Run("failure is isolated to its own result", func(t *testing.T) {
		var grp Group
		ctx := context.Background()
		boom := errors.New("connection lost")

		a := Go(&grp, ctx, func(context.Context) (int, error) {
			return 0, boom
		})
		b := Go(&grp, ctx, func(ctx context.Context) (int, error) {
			time.Sleep(5 * time.Millisecond)
			return 1, ctx.Err()
		})
		grp.Wait()

		if !a.IsFailed() || !errors.Is(a.Err, boom) {
			t.Errorf("Expected a failed with %v, got %s %v", boom, a.State, a.Err)
		}
		if !b.IsResolved() {
			t.Errorf("Expected b to resolve despite a failing, got %s", b.State)
		}
	})
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{Loading, "loading"},
		{Resolved, "resolved"},
		{Failed, "failed"},
		{State(9), "State(9)"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, got)
		}
	}
}
