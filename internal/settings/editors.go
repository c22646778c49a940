package settings

import "sync"

// Editors holds the open settings form of each owner. Opening the settings
// page again replaces the previous form, the way reloading the page would.
type Editors struct {
	mu      sync.Mutex
	open    map[string]*Controller
	factory func(owner string) *Controller
}

// NewEditors creates a registry that builds forms with factory.
func NewEditors(factory func(owner string) *Controller) *Editors {
	return &Editors{
		open:    make(map[string]*Controller),
		factory: factory,
	}
}

// Open starts a fresh form for owner.
func (e *Editors) Open(owner string) *Controller {
	c := e.factory(owner)
	e.mu.Lock()
	e.open[owner] = c
	e.mu.Unlock()
	return c
}

// Get returns the owner's open form.
func (e *Editors) Get(owner string) (*Controller, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.open[owner]
	return c, ok
}

// Close forgets the owner's form.
func (e *Editors) Close(owner string) {
	e.mu.Lock()
	delete(e.open, owner)
	e.mu.Unlock()
}

// Len reports how many forms are open.
func (e *Editors) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.open)
}
