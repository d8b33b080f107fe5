package sms

import (
	"context"
	"sync"
)

// Recorder captures sent messages in memory. Test double.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	Err      error // returned by Send when non-nil
}

// Message is a captured SMS.
type Message struct {
	Phone string
	Body  string
}

// NewRecorder builds an in-memory SMS recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Send records the message, or fails with the configured error.
func (r *Recorder) Send(_ context.Context, phone, body string) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Phone: phone, Body: body})
	return nil
}

// Messages returns a copy of all captured messages.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}
