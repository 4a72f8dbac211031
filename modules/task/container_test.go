package task

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-monolith/mono"
)

// fakeContainer dispatches request-reply calls to registered handlers in process.
type fakeContainer struct {
	mono.ServiceContainer

	mu       sync.RWMutex
	handlers map[string]mono.RequestReplyHandler
}

func newFakeContainer() *fakeContainer {
	return &fakeContainer{handlers: make(map[string]mono.RequestReplyHandler)}
}

func (c *fakeContainer) RegisterRequestReplyService(name string, handler mono.RequestReplyHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.handlers[name]; exists {
		return fmt.Errorf("service %q already registered", name)
	}
	c.handlers[name] = handler
	return nil
}

func (c *fakeContainer) GetRequestReplyService(name string) (mono.RequestReplyServiceClient, error) {
	c.mu.RLock()
	handler, ok := c.handlers[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("service %q not found", name)
	}
	return fakeClient{handler: handler}, nil
}

type fakeClient struct {
	handler mono.RequestReplyHandler
}

func (c fakeClient) Call(ctx context.Context, data []byte) (*mono.Msg, error) {
	return c.CallMsg(ctx, &mono.Msg{Data: data})
}

func (c fakeClient) CallMsg(ctx context.Context, msg *mono.Msg) (*mono.Msg, error) {
	data, err := c.handler(ctx, msg)
	if err != nil {
		return nil, err
	}
	return &mono.Msg{Data: data}, nil
}
