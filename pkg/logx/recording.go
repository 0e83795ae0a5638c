package logx

import "sync"

// RecordedEvent - one event captured by a RecordingClient.
type RecordedEvent struct {
	EventType string
	Payload   map[string]any
}

// RecordingClient - LogClient that captures events and errors in memory.
// Intended for test harnesses asserting on the event stream.
type RecordingClient struct {
	mu     sync.Mutex
	events []RecordedEvent
	errors []error
}

// NewRecordingClient - create an empty RecordingClient.
func NewRecordingClient() *RecordingClient {
	return &RecordingClient{}
}

// Log - capture a lifecycle event.
func (c *RecordingClient) Log(eventType string, payload map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = append(c.events, RecordedEvent{EventType: eventType, Payload: payload})
}

// Error - capture an out-of-band error.
func (c *RecordingClient) Error(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errors = append(c.errors, err)
}

// Events - all captured events in emission order.
func (c *RecordingClient) Events() []RecordedEvent {
	c.mu.Lock()
	defer c.mu.Unlock()

	events := make([]RecordedEvent, len(c.events))
	copy(events, c.events)

	return events
}

// EventsOfType - captured events with the given event type.
func (c *RecordingClient) EventsOfType(eventType string) []RecordedEvent {
	var matched []RecordedEvent

	for _, event := range c.Events() {
		if event.EventType == eventType {
			matched = append(matched, event)
		}
	}

	return matched
}

// Errors - all captured out-of-band errors.
func (c *RecordingClient) Errors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()

	errs := make([]error, len(c.errors))
	copy(errs, c.errors)

	return errs
}

// Reset - drop all captured events and errors.
func (c *RecordingClient) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = nil
	c.errors = nil
}
