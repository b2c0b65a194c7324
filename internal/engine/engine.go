package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/specialistvlad/gamreg/internal/ctxlog"
	"github.com/specialistvlad/gamreg/internal/descriptor"
	"github.com/specialistvlad/gamreg/internal/gam"
	"github.com/specialistvlad/gamreg/internal/registry"
)

var (
	// ErrContract reports inputs or outputs that disagree with the registered
	// descriptors.
	ErrContract = errors.New("module contract violated")
	// ErrNotAttached reports a module name the engine does not drive.
	ErrNotAttached = errors.New("module not attached")
	// ErrNotSetUp reports an Execute before Setup.
	ErrNotSetUp = errors.New("module not set up")
)

type instance struct {
	module gam.Module
	setup  bool
	cycles int
}

// Engine drives the modules attached to it against a registry.
type Engine struct {
	reg *registry.Registry

	// attachMu serializes Load and Attach so that the attached check and the
	// registration it guards happen together.
	attachMu sync.Mutex

	mu        sync.Mutex
	instances map[string]*instance
	order     []string
}

// New creates an engine bound to reg.
func New(reg *registry.Registry) *Engine {
	if reg == nil {
		panic("engine: New called with a nil registry")
	}
	return &Engine{
		reg:       reg,
		instances: make(map[string]*instance),
	}
}

// Registry returns the registry the engine reads descriptors and parameters
// from.
func (e *Engine) Registry() *registry.Registry {
	return e.reg
}

// Load registers the module's own descriptors and attaches it. A module that
// is already attached is refused before anything is registered.
func (e *Engine) Load(ctx context.Context, m gam.Module) error {
	e.attachMu.Lock()
	defer e.attachMu.Unlock()
	if e.attached(m.Name()) {
		return fmt.Errorf("module '%s' is already attached", m.Name())
	}
	if err := e.reg.RegisterModule(ctx, m); err != nil {
		return err
	}
	return e.attach(ctx, m)
}

// Attach binds m to a registration made earlier, typically from a manifest.
// The registered descriptors must agree with the ones m declares.
func (e *Engine) Attach(ctx context.Context, m gam.Module) error {
	e.attachMu.Lock()
	defer e.attachMu.Unlock()
	return e.attach(ctx, m)
}

func (e *Engine) attach(ctx context.Context, m gam.Module) error {
	name := m.Name()
	if e.attached(name) {
		return fmt.Errorf("module '%s' is already attached", name)
	}
	if err := e.reg.CheckParity(ctx, m); err != nil {
		return err
	}

	e.mu.Lock()
	e.instances[name] = &instance{module: m}
	e.order = append(e.order, name)
	e.mu.Unlock()

	ctxlog.FromContext(ctx).Debug("Module attached.", "module", name)
	return nil
}

func (e *Engine) attached(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.instances[name]
	return ok
}

// Modules returns the names of the attached modules, sorted.
func (e *Engine) Modules() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, len(e.order))
	copy(names, e.order)
	sort.Strings(names)
	return names
}

// Setup calls Setup on every attached module that has not been set up yet, in
// attach order. It stops at the first failure; the failed module is retried on
// the next call.
func (e *Engine) Setup(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	e.mu.Lock()
	pending := make([]*instance, 0, len(e.order))
	for _, name := range e.order {
		if inst := e.instances[name]; !inst.setup {
			pending = append(pending, inst)
		}
	}
	e.mu.Unlock()

	for _, inst := range pending {
		name := inst.module.Name()
		logger.Debug("Setting up module.", "module", name)
		if err := inst.module.Setup(ctxlog.With(ctx, "module", name), e.reg); err != nil {
			return fmt.Errorf("module '%s' setup failed: %w", name, err)
		}
		e.mu.Lock()
		inst.setup = true
		e.mu.Unlock()
	}
	return nil
}

// Execute runs one cycle of the named module. Inputs are converted to the
// normal form of their declared shapes; the returned outputs are in normal form
// too.
func (e *Engine) Execute(ctx context.Context, name string, inputs []descriptor.Value) ([]descriptor.Value, error) {
	inst, err := e.instance(name)
	if err != nil {
		return nil, err
	}
	entry, err := e.reg.Lookup(name)
	if err != nil {
		return nil, err
	}

	in, err := conform(&entry.Inputs, inputs)
	if err != nil {
		return nil, fmt.Errorf("%w: module '%s' inputs: %w", ErrContract, name, err)
	}

	out, err := inst.module.Execute(ctxlog.With(ctx, "module", name), in)
	if err != nil {
		return nil, fmt.Errorf("module '%s' execute failed: %w", name, err)
	}

	out, err = conform(&entry.Outputs, out)
	if err != nil {
		return nil, fmt.Errorf("%w: module '%s' outputs: %w", ErrContract, name, err)
	}

	e.mu.Lock()
	inst.cycles++
	cycle := inst.cycles
	e.mu.Unlock()
	ctxlog.FromContext(ctx).Debug("Module executed.", "module", name, "cycle", cycle)
	return out, nil
}

// ZeroInputs returns one all-zero value per declared input of the named module.
func (e *Engine) ZeroInputs(name string) ([]descriptor.Value, error) {
	entry, err := e.reg.Lookup(name)
	if err != nil {
		return nil, err
	}
	inputs := make([]descriptor.Value, len(entry.Inputs.Dimensions))
	for i, shape := range entry.Inputs.Dimensions {
		inputs[i] = descriptor.Zero(shape)
	}
	return inputs, nil
}

// Cycles reports how many successful Execute calls the named module has had.
func (e *Engine) Cycles(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if inst, ok := e.instances[name]; ok {
		return inst.cycles
	}
	return 0
}

func (e *Engine) instance(name string) (*instance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	inst, ok := e.instances[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrNotAttached, name)
	}
	if !inst.setup {
		return nil, fmt.Errorf("%w: '%s'", ErrNotSetUp, name)
	}
	return inst, nil
}

// conform checks values against d and converts each to its normal form.
func conform(d *descriptor.Descriptor, values []descriptor.Value) ([]descriptor.Value, error) {
	if len(values) != len(d.Dimensions) {
		return nil, fmt.Errorf("%s declares %d signals, got %d", d.Kind, len(d.Dimensions), len(values))
	}
	out := make([]descriptor.Value, len(values))
	for i, v := range values {
		norm, err := descriptor.Normalize(d.Dimensions[i], v)
		if err != nil {
			return nil, fmt.Errorf("%s[%d] '%s': %w", d.Kind, i, d.Names[i], err)
		}
		out[i] = norm
	}
	return out, nil
}
