package services

import (
	"context"
	"strings"
	"sync"

	"github.com/zatekoja/medicalnetwork/internal/domain/entities"
	"github.com/zatekoja/medicalnetwork/internal/domain/providers"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.sets++
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

type countingGenerator struct {
	mu      sync.Mutex
	calls   int
	reply   string
	err     error
	prompts []string
	files   [][]providers.Attachment
}

func (g *countingGenerator) Generate(_ context.Context, prompt string, attachments []providers.Attachment) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.prompts = append(g.prompts, prompt)
	g.files = append(g.files, attachments)
	return g.reply, g.err
}

func (g *countingGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type recordingBus struct {
	mu     sync.Mutex
	events []*entities.DirectoryEvent
	ch     chan *entities.DirectoryEvent
}

func newRecordingBus() *recordingBus {
	return &recordingBus{ch: make(chan *entities.DirectoryEvent, 8)}
}

func (b *recordingBus) Publish(_ context.Context, _ string, event *entities.DirectoryEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *recordingBus) Subscribe(_ context.Context, _ string) (<-chan *entities.DirectoryEvent, error) {
	return b.ch, nil
}

func (b *recordingBus) Close() error { return nil }

func (b *recordingBus) Published() []*entities.DirectoryEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*entities.DirectoryEvent(nil), b.events...)
}
