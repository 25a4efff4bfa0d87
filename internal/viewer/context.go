package viewer

import (
	"sync"

	"github.com/mithrel/markmapview/internal/panel"
)

type Size struct {
	Width  int
	Height int
}

// ContextObject is the host-owned state a viewer reports into: window title,
// preferred size, displayed content, and the busy indicator.
type ContextObject struct {
	mu        sync.Mutex
	title     string
	preferred Size
	content   panel.Panel
	busy      bool
	idle      chan struct{}
}

// NewContextObject returns a context in the busy state, as the host presents
// it to a viewer that is about to load.
func NewContextObject() *ContextObject {
	return &ContextObject{busy: true, idle: make(chan struct{})}
}

func (c *ContextObject) Title() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.title
}

func (c *ContextObject) SetTitle(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.title = title
}

func (c *ContextObject) PreferredSize() Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preferred
}

func (c *ContextObject) SetPreferredSize(s Size) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.preferred = s
}

func (c *ContextObject) ViewerContent() panel.Panel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content
}

func (c *ContextObject) SetViewerContent(p panel.Panel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.content = p
}

func (c *ContextObject) IsBusy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *ContextObject) SetBusy(busy bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if busy == c.busy {
		return
	}
	c.busy = busy
	if busy {
		c.idle = make(chan struct{})
		return
	}
	close(c.idle)
}

// Idle returns a channel closed once the busy indicator is cleared.
func (c *ContextObject) Idle() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.idle
}
