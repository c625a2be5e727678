package optim

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// Factory builds an optimizer from deserialized config params. A nil map
// requests the optimizer's defaults.
type Factory func(params map[string]any) (Optimizer, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds an optimizer factory under name.
//
// The built-in optimizers register themselves from init, so the registry is
// populated before main runs; additional averaged optimizers can register
// their own names the same way. Registering a duplicate name panics.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("optim: duplicate registration of %q", name))
	}
	registry[name] = factory
}

// Get resolves an optimizer identifier.
//
// An Optimizer value is returned as-is. A string is resolved through the
// registry and built with default parameters. Anything else is a TypeError.
func Get(identifier any) (Optimizer, error) {
	switch v := identifier.(type) {
	case Optimizer:
		return v, nil
	case string:
		factory, err := lookup(v)
		if err != nil {
			return nil, err
		}
		return factory(nil)
	default:
		return nil, errors.WithStack(&TypeError{
			Argument: "optimizer",
			Value:    identifier,
			Expected: "optim.Optimizer or registered name string",
		})
	}
}

func lookup(name string) (Factory, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrUnknownOptimizer, "%q", name)
	}
	return factory, nil
}
