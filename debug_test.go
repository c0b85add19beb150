package ctxstack

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/goliatone/go-ctxstack/internal/logging"
	"github.com/goliatone/go-ctxstack/pkg/activity"
	"github.com/google/go-cmp/cmp"
)

func TestDebugHookReceivesMaterializedValues(t *testing.T) {
	var seen []DebugValue[string]
	stack := New[string](
		WithName[string]("toc"),
		WithDebugHook(func(v DebugValue[string]) { seen = append(seen, v) }),
	)

	ctx := stack.With(stack.With(context.Background(), "a"), "b")
	stack.Materialize(ctx)
	stack.Materialize(context.Background())

	if len(seen) != 2 {
		t.Fatalf("expected 2 hook calls, got %d", len(seen))
	}
	if seen[0].StackName != "toc" || seen[0].StackID != stack.ID() || seen[0].Depth != 2 {
		t.Fatalf("unexpected debug value: %+v", seen[0])
	}
	if diff := cmp.Diff([]string{"a", "b"}, seen[0].Values); diff != "" {
		t.Fatalf("debug values mismatch (-want +got):\n%s", diff)
	}
	if seen[1].Depth != 0 || len(seen[1].Values) != 0 {
		t.Fatalf("expected empty debug value outside scopes, got %+v", seen[1])
	}
}

func TestDebugHookCannotCorruptStack(t *testing.T) {
	stack := New[string](WithDebugHook(func(v DebugValue[string]) {
		for i := range v.Values {
			v.Values[i] = "mutated"
		}
	}))

	ctx := stack.With(stack.With(context.Background(), "a"), "b")
	stack.Materialize(ctx)

	if diff := cmp.Diff([]string{"a", "b"}, stack.Current(ctx).Values()); diff != "" {
		t.Fatalf("stack values changed by hook (-want +got):\n%s", diff)
	}
}

func TestActivityHooksObserveStackEvents(t *testing.T) {
	capture := &activity.CaptureHook{}
	stack := New[int](WithName[int]("levels"), WithActivityHooks[int](activity.Hooks{capture}))

	ctx := activity.WithActor(context.Background(), activity.Actor{ActorID: "actor-1"})
	ctx = stack.With(ctx, 1)
	ctx = stack.With(ctx, 2)
	stack.Materialize(ctx)

	want := []string{activity.VerbStackExtended, activity.VerbStackExtended, activity.VerbStackMaterialized}
	if diff := cmp.Diff(want, capture.Verbs()); diff != "" {
		t.Fatalf("verbs mismatch (-want +got):\n%s", diff)
	}

	last := capture.Events[2]
	if last.StackID != stack.ID() || last.StackName != "levels" || last.Depth != 2 {
		t.Fatalf("unexpected event header: %+v", last)
	}
	if last.ActorID != "actor-1" || last.Channel != activity.DefaultChannel {
		t.Fatalf("expected actor and default channel, got %+v", last)
	}
	if last.Metadata["top"] != 2 {
		t.Fatalf("expected top metadata 2, got %v", last.Metadata["top"])
	}
}

func TestBoundaryReuseDoesNotEmit(t *testing.T) {
	capture := &activity.CaptureHook{}
	stack := New[int](WithActivityHooks[int](activity.Hooks{capture}))
	boundary := stack.Boundary()

	boundary.Enter(context.Background(), 1)
	boundary.Enter(context.Background(), 1)

	if got := len(capture.Events); got != 1 {
		t.Fatalf("expected one extended event, got %d", got)
	}
}

func TestActivityHookFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	failing := &activity.CaptureHook{Err: errors.New("sink down")}
	stack := New[int](
		WithLogger[int](logging.NewWithWriter(&buf, slog.LevelDebug)),
		WithActivityHooks[int](activity.Hooks{failing}),
	)

	ctx := stack.With(context.Background(), 1)
	if got := stack.Materialize(ctx); len(got) != 1 {
		t.Fatalf("hook failure must not affect values, got %v", got)
	}

	out := buf.String()
	if !strings.Contains(out, "ctxstack: activity hook failed") || !strings.Contains(out, "sink down") {
		t.Fatalf("expected hook failure in logs, got %s", out)
	}
	if !strings.Contains(out, "ctxstack: extended") {
		t.Fatalf("expected debug extension log, got %s", out)
	}
}
