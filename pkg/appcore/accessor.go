package appcore

import (
	"sync"

	"github.com/randalmurphal/appcore/pkg/appcore/config"
)

// Accessor owns the single live Core. Get builds it on first use and
// returns the same Core until Destroy.
//
// The config store belongs to the Accessor, not to the Core, so values set
// through SetConfigProp survive Destroy.
type Accessor struct {
	opts options

	mu   sync.Mutex
	core *Core
}

// NewAccessor creates an Accessor. The options apply to every Core it builds.
func NewAccessor(opts ...Option) *Accessor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.config == nil {
		o.config = config.New(nil)
	}
	return &Accessor{opts: o}
}

// Get returns the live Core, creating it if needed.
func (a *Accessor) Get() *Core {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.core == nil {
		a.core = newCore(a.opts)
	}
	return a.core
}

// Destroy clears the live Core's events and storage and drops it. The next
// Get returns a new Core. Destroy with no live Core does nothing.
func (a *Accessor) Destroy() {
	a.mu.Lock()
	core := a.core
	a.core = nil
	a.mu.Unlock()

	if core != nil {
		core.destroy()
	}
}

// Config returns the config store shared by every Core from this Accessor.
func (a *Accessor) Config() *config.Store {
	return a.opts.config
}

var defaultAccessor = NewAccessor()

// GetInstance returns the process-wide Core.
func GetInstance() *Core {
	return defaultAccessor.Get()
}

// Destroy destroys the process-wide Core. The next GetInstance builds a new one.
func Destroy() {
	defaultAccessor.Destroy()
}
