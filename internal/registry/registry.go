package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/specialistvlad/gamreg/internal/ctxlog"
	"github.com/specialistvlad/gamreg/internal/descriptor"
	"github.com/specialistvlad/gamreg/internal/gam"
	"github.com/specialistvlad/gamreg/internal/paramstore"
)

// Entry is the validated declaration of one module.
type Entry struct {
	Name        string
	Description string
	Inputs      descriptor.Descriptor
	Outputs     descriptor.Descriptor
	Parameters  descriptor.Descriptor
	// RegistrationID changes on every successful registration of Name.
	RegistrationID uuid.UUID
	// Source records where the descriptors came from, e.g. a manifest path or
	// "builtin".
	Source string
}

// SourceBuiltin is the Source of entries registered from Go code.
const SourceBuiltin = "builtin"

// Descriptor returns the entry's descriptor of the given kind.
func (e *Entry) Descriptor(kind descriptor.Kind) *descriptor.Descriptor {
	switch kind {
	case descriptor.InputKind:
		return &e.Inputs
	case descriptor.OutputKind:
		return &e.Outputs
	default:
		return &e.Parameters
	}
}

// Registry holds every registered module and its live parameter values.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	values  *paramstore.Store
}

// New creates and initializes a new, empty Registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
		values:  paramstore.New(),
	}
}

// Register validates the three raw descriptors of a module and, when all of
// them pass, stores them under name and resets the module's parameter values
// to the declared defaults. On failure the previous entry for name, if any, is
// left as it was.
func (r *Registry) Register(ctx context.Context, name string, inputs, outputs, parameters descriptor.Raw) error {
	return r.register(ctx, Entry{Name: name, Source: SourceBuiltin}, inputs, outputs, parameters)
}

// RegisterModule registers the built-in descriptors of a Go module.
func (r *Registry) RegisterModule(ctx context.Context, m gam.Module) error {
	if m == nil {
		panic("registry: RegisterModule called with a nil module")
	}
	in, out, params := m.Descriptors()
	return r.register(ctx, Entry{Name: m.Name(), Source: SourceBuiltin}, in, out, params)
}

// register validates the raw descriptors and commits them under meta.Name.
// Only the Name, Description and Source of meta are used.
func (r *Registry) register(ctx context.Context, meta Entry, inputs, outputs, parameters descriptor.Raw) error {
	name := meta.Name
	logger := ctxlog.FromContext(ctx).With("module", name)
	logger.Debug("Validating module descriptors.", "source", meta.Source)

	if name == "" {
		return fmt.Errorf("%w: module name must not be empty", descriptor.ErrSchemaLayout)
	}

	entry := &Entry{Name: name, Description: meta.Description, Source: meta.Source}
	for _, part := range []struct {
		kind descriptor.Kind
		raw  descriptor.Raw
	}{
		{descriptor.InputKind, inputs},
		{descriptor.OutputKind, outputs},
		{descriptor.ParameterKind, parameters},
	} {
		d, err := descriptor.Validate(part.raw.Tag(part.kind))
		if err != nil {
			logger.Debug("Module registration rejected.", "descriptor", part.kind, "error", err)
			return fmt.Errorf("module '%s': %w", name, err)
		}
		*entry.Descriptor(part.kind) = d
	}
	entry.RegistrationID = uuid.New()

	r.mu.Lock()
	_, replaced := r.entries[name]
	r.entries[name] = entry
	r.values.Seed(name, entry.Parameters.Names, entry.Parameters.DefaultValues)
	r.mu.Unlock()

	logger.Debug("Module registered.",
		"registration_id", entry.RegistrationID,
		"inputs", len(entry.Inputs.Names),
		"outputs", len(entry.Outputs.Names),
		"parameters", len(entry.Parameters.Names),
		"replaced", replaced,
	)
	return nil
}

// Unregister removes a module and its parameter values. It reports whether
// the module was registered.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; !ok {
		return false
	}
	delete(r.entries, name)
	r.values.Drop(name)
	return true
}

// Modules returns the names of all registered modules, sorted.
func (r *Registry) Modules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a copy of the entry registered under name. The copy shares no
// descriptor slices with the registry.
func (r *Registry) Lookup(name string) (Entry, error) {
	e, err := r.entry(name)
	if err != nil {
		return Entry{}, err
	}
	out := *e
	out.Inputs = e.Inputs.Clone()
	out.Outputs = e.Outputs.Clone()
	out.Parameters = e.Parameters.Clone()
	return out, nil
}

func (r *Registry) entry(name string) (*Entry, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if ok {
		return e, nil
	}
	msg := fmt.Sprintf("'%s' is not registered", name)
	if hint := descriptor.Suggest(name, r.Modules()); hint != "" {
		msg += fmt.Sprintf("; did you mean '%s'?", hint)
	}
	return nil, fmt.Errorf("%w: %s", descriptor.ErrUnknownModule, msg)
}
