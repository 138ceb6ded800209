package state

import (
	"sync"

	"github.com/ylchen07/azdo-mcp/internal/azdo"
	"github.com/ylchen07/azdo-mcp/internal/filter"
)

// LinkedProject records a project the user linked from a dialog.
type LinkedProject struct {
	Organization string
	Project      azdo.Project
}

// Cache holds lightweight shared state for the MCP session.
type Cache struct {
	mu      sync.RWMutex
	linked  []LinkedProject
	options map[filter.Selection]filter.Options
}

// NewCache creates a Cache.
func NewCache() *Cache {
	return &Cache{options: make(map[filter.Selection]filter.Options)}
}

// AddLinkedProject records a linked project. Linking the same project again
// moves it to the end so it becomes the last linked one.
func (c *Cache) AddLinkedProject(lp LinkedProject) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.linked[:0]
	for _, existing := range c.linked {
		if existing.Organization == lp.Organization && existing.Project.ID == lp.Project.ID {
			continue
		}
		kept = append(kept, existing)
	}
	c.linked = append(kept, lp)
}

// LinkedProjects returns the linked projects, oldest first.
func (c *Cache) LinkedProjects() []LinkedProject {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]LinkedProject(nil), c.linked...)
}

// LastLinked returns the most recently linked project.
func (c *Cache) LastLinked() (LinkedProject, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.linked) == 0 {
		return LinkedProject{}, false
	}
	return c.linked[len(c.linked)-1], true
}

// FilterOptions returns the options cached for sel.
func (c *Cache) FilterOptions(sel filter.Selection) (filter.Options, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	opts, ok := c.options[sel]
	return opts, ok
}

// SetFilterOptions stores the options fetched for sel.
func (c *Cache) SetFilterOptions(sel filter.Selection, opts filter.Options) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.options == nil {
		c.options = make(map[filter.Selection]filter.Options)
	}
	c.options[sel] = opts
}
