package event

import (
	"context"
	"testing"
	"time"

	"github.com/ytget/playlist-downloader/internal/model"
)

func TestPublisher_DeliversInOrder(t *testing.T) {
	p := NewPublisher(8)

	p.Publish(context.Background(), Event{Type: TypeBatchStarted, Total: 2})
	p.Publish(context.Background(), Event{Type: TypeItemStarted, Position: 1})
	p.Publish(context.Background(), Event{Type: TypeItemFinished, Position: 1})
	p.Publish(context.Background(), Event{Type: TypeBatchFinished})
	p.Close()

	var types []Type
	for e := range p.Events() {
		types = append(types, e.Type)
	}

	expected := []Type{TypeBatchStarted, TypeItemStarted, TypeItemFinished, TypeBatchFinished}
	if len(types) != len(expected) {
		t.Fatalf("Expected %d events, got %d", len(expected), len(types))
	}
	for i, typ := range expected {
		if types[i] != typ {
			t.Errorf("Event %d: expected %s, got %s", i, typ, types[i])
		}
	}
}

func TestPublisher_TryPublishDropsWhenFull(t *testing.T) {
	p := NewPublisher(1)

	if !p.TryPublish(Event{Type: TypeItemProgress}) {
		t.Fatal("Expected first TryPublish to succeed")
	}

	// Buffer is full and nobody is draining; progress must be dropped
	// rather than blocking.
	done := make(chan bool, 1)
	go func() {
		done <- p.TryPublish(Event{Type: TypeItemProgress, Progress: model.ProgressUpdate{Percent: 50}})
	}()

	select {
	case ok := <-done:
		if ok {
			t.Error("Expected TryPublish to report a dropped event")
		}
	case <-time.After(time.Second):
		t.Fatal("TryPublish blocked on a full buffer")
	}
}

func TestPublisher_PublishRespectsContext(t *testing.T) {
	p := NewPublisher(1)
	p.Publish(context.Background(), Event{Type: TypeItemStarted})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		p.Publish(ctx, Event{Type: TypeItemFinished})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish did not return on cancelled context")
	}
}

func TestPublisher_PublishAfterClose(t *testing.T) {
	p := NewPublisher(4)
	p.Close()

	// Must not panic.
	p.Publish(context.Background(), Event{Type: TypeItemStarted})
	if p.TryPublish(Event{Type: TypeItemProgress}) {
		t.Error("Expected TryPublish to fail after Close")
	}

	if _, ok := <-p.Events(); ok {
		t.Error("Expected closed events channel")
	}
}
