package engine

import (
	"log"

	"github.com/lixenwraith/vfx/config"
	"github.com/lixenwraith/vfx/core"
	"github.com/lixenwraith/vfx/event"
	"github.com/lixenwraith/vfx/status"
)

// Context carries the shared collaborators every component is constructed with
// Owned by the host; there are no package-level singletons
type Context struct {
	Config config.Config
	Bus    *event.Bus
	Status *status.Registry
	Logger *log.Logger
	Clock  TimeProvider
}

// Option customizes a Context
type Option func(*Context)

// WithLogger sets the logger, nil keeps the default logger
func WithLogger(l *log.Logger) Option {
	return func(c *Context) { c.Logger = core.Logger(l) }
}

// WithClock sets the time source
func WithClock(clock TimeProvider) Option {
	return func(c *Context) { c.Clock = clock }
}

// WithBus shares an existing event bus
func WithBus(b *event.Bus) Option {
	return func(c *Context) { c.Bus = b }
}

// WithStatus shares an existing metrics registry
func WithStatus(r *status.Registry) Option {
	return func(c *Context) { c.Status = r }
}

// NewContext builds a context, filling unset collaborators with defaults
func NewContext(cfg config.Config, opts ...Option) *Context {
	c := &Context{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	c.Logger = core.Logger(c.Logger)
	if c.Clock == nil {
		c.Clock = NewMonotonicTimeProvider()
	}
	if c.Bus == nil {
		c.Bus = event.NewBus(c.Logger)
	}
	if c.Status == nil {
		c.Status = status.NewRegistry()
	}
	return c
}
