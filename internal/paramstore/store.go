package paramstore

import (
	"fmt"
	"sort"
	"sync"

	"github.com/specialistvlad/gamreg/internal/descriptor"
)

// Address identifies one live parameter value.
type Address struct {
	Module    string
	Parameter string
}

// String renders the address as "module.parameter".
func (a Address) String() string {
	return a.Module + "." + a.Parameter
}

// Store is an in-memory parameter value store.
type Store struct {
	values sync.Map // Key: Address, Value: descriptor.Value
}

// New creates a new, empty store.
func New() *Store {
	return &Store{}
}

// Seed discards every value held for module and stores the given defaults in
// their place. names and defaults are parallel slices.
func (s *Store) Seed(module string, names []string, defaults []descriptor.Value) {
	if len(names) != len(defaults) {
		panic(fmt.Sprintf("paramstore: %d names but %d defaults for module '%s'", len(names), len(defaults), module))
	}
	s.Drop(module)
	for i, name := range names {
		s.values.Store(Address{Module: module, Parameter: name}, defaults[i])
	}
}

// Drop removes every value held for module.
func (s *Store) Drop(module string) {
	s.values.Range(func(key, _ any) bool {
		if key.(Address).Module == module {
			s.values.Delete(key)
		}
		return true
	})
}

// Get returns the live value of a parameter.
func (s *Store) Get(module, parameter string) (descriptor.Value, error) {
	v, ok := s.values.Load(Address{Module: module, Parameter: parameter})
	if !ok {
		return descriptor.Value{}, fmt.Errorf("%w: module '%s' declares no parameter '%s'", descriptor.ErrUnknownParameter, module, parameter)
	}
	return v.(descriptor.Value), nil
}

// Set overwrites the live value of a parameter that was seeded earlier.
func (s *Store) Set(module, parameter string, value descriptor.Value) error {
	addr := Address{Module: module, Parameter: parameter}
	if _, ok := s.values.Load(addr); !ok {
		return fmt.Errorf("%w: module '%s' declares no parameter '%s'", descriptor.ErrUnknownParameter, module, parameter)
	}
	s.values.Store(addr, value)
	return nil
}

// Snapshot copies the live values of module, keyed by parameter name.
func (s *Store) Snapshot(module string) map[string]descriptor.Value {
	out := make(map[string]descriptor.Value)
	s.values.Range(func(key, value any) bool {
		if addr := key.(Address); addr.Module == module {
			out[addr.Parameter] = value.(descriptor.Value)
		}
		return true
	})
	return out
}

// Addresses lists every stored address in sorted order.
func (s *Store) Addresses() []Address {
	var out []Address
	s.values.Range(func(key, _ any) bool {
		out = append(out, key.(Address))
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}
