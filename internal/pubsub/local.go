package pubsub

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// LocalClient delivers messages synchronously to in-process subscribers,
// using the same msgpack encoding as the Google client.
type LocalClient struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

var _ PubSubClient = (*LocalClient)(nil)

func NewLocal() *LocalClient {
	return &LocalClient{handlers: map[EventType][]Handler{}}
}

// Subscribe registers h for every message sent to topic.
func (c *LocalClient) Subscribe(topic EventType, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[topic] = append(c.handlers[topic], h)
}

func (c *LocalClient) SendMessage(ctx context.Context, topic EventType, data any) error {
	payload, err := encode(data)
	if err != nil {
		return err
	}

	c.mu.RLock()
	handlers := append([]Handler(nil), c.handlers[topic]...)
	c.mu.RUnlock()

	if len(handlers) == 0 {
		log.Debug("No subscribers for topic", "topic", topic)
		return nil
	}
	for _, h := range handlers {
		if err := h(ctx, payload); err != nil {
			return fmt.Errorf("subscriber for %s failed: %w", topic, err)
		}
	}
	return nil
}

func (c *LocalClient) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

func (c *LocalClient) Close() error {
	return nil
}
