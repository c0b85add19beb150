// Package usersink forwards stack events to a go-users ActivitySink so scope
// changes land in the same audit trail as user activity.
package usersink

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/goliatone/go-ctxstack/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// ObjectType labels stack records written to the sink.
const ObjectType = "ctxstack.stack"

// Hook adapts stack events to a go-users ActivitySink. When Verbs is set only
// those verbs are forwarded; materializations are usually too chatty for an
// audit log.
type Hook struct {
	Sink  usertypes.ActivitySink
	Verbs []string
}

// Notify records event under the stack id.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	event = activity.NormalizeEvent(event)
	if event.Verb == "" || event.StackID == "" {
		return nil
	}
	if len(h.Verbs) > 0 && !slices.Contains(h.Verbs, event.Verb) {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return h.Sink.Log(ctx, Record(event))
}

// Record maps a normalized event onto an ActivityRecord. Identifiers that are
// not UUIDs map to uuid.Nil.
func Record(event activity.Event) usertypes.ActivityRecord {
	return usertypes.ActivityRecord{
		ActorID:    parseUUID(event.ActorID),
		UserID:     parseUUID(event.UserID),
		TenantID:   parseUUID(event.TenantID),
		Verb:       event.Verb,
		ObjectType: ObjectType,
		ObjectID:   event.StackID,
		Channel:    event.Channel,
		Data:       recordData(event),
		OccurredAt: event.OccurredAt,
	}
}

func recordData(event activity.Event) map[string]any {
	data := map[string]any{"depth": event.Depth}
	maps.Copy(data, event.Metadata)
	if event.StackName != "" {
		data["stack_name"] = event.StackName
	}
	if len(event.Values) > 0 {
		data["values"] = slices.Clone(event.Values)
	}
	return data
}

func parseUUID(input string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil
	}
	return id
}
