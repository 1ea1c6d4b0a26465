package ai

import "fmt"

// Registry indexes doctrines by name. It is itself a Doctrine that dispatches
// on WorldState.Self.Doctrine.
//
// Invariant: each name is registered at most once.
type Registry struct {
	doctrines map[string]Doctrine
}

// NewRegistry returns a Registry holding the built-in doctrines.
func NewRegistry() *Registry {
	r := &Registry{doctrines: make(map[string]Doctrine)}
	_ = r.Register("berserker", DoctrineFunc(berserker))
	_ = r.Register("skirmisher", DoctrineFunc(skirmisher))
	return r
}

// Register adds d under name.
//
// Postcondition: returns error if name is already registered.
func (r *Registry) Register(name string, d Doctrine) error {
	if _, exists := r.doctrines[name]; exists {
		return fmt.Errorf("ai.Registry: doctrine %q already registered", name)
	}
	r.doctrines[name] = d
	return nil
}

// Lookup returns the doctrine registered under name.
func (r *Registry) Lookup(name string) (Doctrine, bool) {
	d, ok := r.doctrines[name]
	return d, ok
}

// Advise dispatches to the doctrine named by ws.Self.Doctrine.
func (r *Registry) Advise(ws *WorldState, d Decision) (Decision, error) {
	doc, ok := r.Lookup(ws.Self.Doctrine)
	if !ok {
		return d, fmt.Errorf("ai.Registry: unknown doctrine %q", ws.Self.Doctrine)
	}
	return doc.Advise(ws, d)
}

// DoctrineFunc adapts a plain function to the Doctrine interface.
type DoctrineFunc func(ws *WorldState, d Decision) (Decision, error)

// Advise calls f.
func (f DoctrineFunc) Advise(ws *WorldState, d Decision) (Decision, error) { return f(ws, d) }

// berserker never takes cover and always goes for the strongest foe.
func berserker(_ *WorldState, d Decision) (Decision, error) {
	d.TakeCover = false
	d.Target = TargetStrongest
	return d, nil
}

// skirmisher flanks whenever it is not outnumbered and picks off the weakest.
func skirmisher(ws *WorldState, d Decision) (Decision, error) {
	if ws.SideSize() >= len(ws.LivingEnemies()) {
		d.AttemptFlank = true
	}
	d.Target = TargetWeakest
	return d, nil
}
