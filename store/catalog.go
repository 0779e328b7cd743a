package store

import (
	"errors"
	"sync"

	"github.com/flowd-io/flowd/workflow"
)

var (
	// ErrWorkflowNotFound is returned when no definition has the given ID.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrWorkflowExists is returned when registering a definition whose ID is
	// already present.
	ErrWorkflowExists = errors.New("workflow already registered")
)

// Catalog is the read-mostly set of workflow definitions, looked up by ID.
// Definitions are immutable once registered; there is no update or delete.
type Catalog struct {
	mu        sync.RWMutex
	workflows map[string]*workflow.Definition
	order     []string // registration order, for stable listings
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		workflows: make(map[string]*workflow.Definition),
	}
}

// Register adds a definition to the catalog.
func (c *Catalog) Register(def *workflow.Definition) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.workflows[def.ID]; exists {
		return ErrWorkflowExists
	}
	c.workflows[def.ID] = def
	c.order = append(c.order, def.ID)
	return nil
}

// Get returns the definition with the given ID.
func (c *Catalog) Get(id string) (*workflow.Definition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	def, exists := c.workflows[id]
	if !exists {
		return nil, ErrWorkflowNotFound
	}
	return def, nil
}

// List returns all definitions in registration order.
func (c *Catalog) List() []*workflow.Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	defs := make([]*workflow.Definition, 0, len(c.order))
	for _, id := range c.order {
		defs = append(defs, c.workflows[id])
	}
	return defs
}

// Len returns the number of registered definitions.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.workflows)
}
