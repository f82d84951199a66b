package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	auth "github.com/goliatone/go-cookie-auth"
)

// DefaultStream is the redis stream activity events are appended to
const DefaultStream = "authd:activity"

// StreamSink appends activity events to a redis stream
type StreamSink struct {
	client redis.Cmdable
	stream string
	maxLen int64
}

var _ auth.ActivitySink = (*StreamSink)(nil)

// NewStreamSink creates a sink writing to stream. A positive maxLen trims
// the stream approximately to that many entries.
func NewStreamSink(client redis.Cmdable, stream string, maxLen int64) *StreamSink {
	if stream == "" {
		stream = DefaultStream
	}
	return &StreamSink{
		client: client,
		stream: stream,
		maxLen: maxLen,
	}
}

func (s *StreamSink) Record(ctx context.Context, event auth.ActivityEvent) error {
	values := map[string]any{
		"event":       string(event.EventType),
		"username":    event.Username,
		"occurred_at": event.OccurredAt.UTC().Format(time.RFC3339Nano),
	}

	if event.Kind != 0 {
		values["kind"] = event.Kind.String()
	}
	if event.Diagnostic != auth.DiagnosticNone {
		values["diagnostic"] = string(event.Diagnostic)
	}
	if len(event.Metadata) > 0 {
		raw, err := json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("encoding activity metadata: %w", err)
		}
		values["metadata"] = string(raw)
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: values,
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}

// Multi fans an event out to every sink, all sinks are tried even when
// one of them fails
func Multi(sinks ...auth.ActivitySink) auth.ActivitySink {
	out := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

type multiSink []auth.ActivitySink

func (m multiSink) Record(ctx context.Context, event auth.ActivityEvent) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
