package sinks

import (
	"context"
	"errors"
	"testing"
)

type stubSink struct {
	id     string
	typ    string
	err    error
	calls  int
	closed bool
}

func (s *stubSink) ID() string   { return s.id }
func (s *stubSink) Type() string { return s.typ }
func (s *stubSink) Publish(context.Context, Event) error {
	s.calls++
	return s.err
}

type closingSink struct {
	stubSink
}

func (c *closingSink) Close() error {
	c.closed = true
	return nil
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	fanout := NewFanout([]Sink{
		&stubSink{id: "ok", typ: "http"},
		nil,
		&stubSink{id: "bad", typ: "http", err: errors.New("failed")},
	})
	if fanout.Size() != 2 {
		t.Fatalf("nil sink not dropped, size %d", fanout.Size())
	}

	count, err := fanout.Publish(context.Background(), Event{})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
}

func TestFanoutCloseOnlyClosers(t *testing.T) {
	closer := &closingSink{stubSink{id: "topic", typ: TypeGCPPubSub}}
	plain := &stubSink{id: "disk", typ: TypeFile}
	if err := NewFanout([]Sink{plain, closer}).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !closer.closed {
		t.Fatalf("closer not closed")
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	sinks, err := BuildAll(context.Background(), reg, []SinkConfig{
		{ID: "http", Type: TypeHTTP, HTTP: &HTTPSinkConfig{URL: "https://example.com"}},
		{ID: "disk", Type: TypeFile, File: &FileSinkConfig{Dir: t.TempDir()}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(sinks) != 2 {
		t.Fatalf("expected 2 sinks, got %d", len(sinks))
	}
}

func TestBuildAllUnknownType(t *testing.T) {
	_, err := BuildAll(context.Background(), NewRegistry(nil), []SinkConfig{{ID: "x", Type: "kafka"}}, nil)
	if err == nil {
		t.Fatalf("expected error for unregistered type")
	}
}
