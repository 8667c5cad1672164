package command

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrDuplicateVerb = errors.New("verb is registered more than once")
	ErrNilHandler    = errors.New("handler is nil")
	ErrEmptyVerb     = errors.New("handler has an empty name")
)

// Entry is a single handler tagged with its Class, for use in building a
// Registry.
type Entry struct {
	Class   Class
	Handler Handler
}

// Action tags h as an action verb.
func Action(h Handler) Entry {
	return Entry{Class: ClassAction, Handler: h}
}

// Emote tags h as an emote verb.
func Emote(h Handler) Entry {
	return Entry{Class: ClassEmote, Handler: h}
}

type registered struct {
	class   Class
	handler Handler
}

// Registry maps verbs to their handlers. It cannot be changed after it is
// created and is safe for use by any number of goroutines.
type Registry struct {
	verbs map[string]registered
}

// NewRegistry creates a Registry from the given entries. It returns an error
// if any handler is nil or has an empty name, or if two entries have the same
// name, regardless of their classes.
func NewRegistry(entries ...Entry) (*Registry, error) {
	reg := &Registry{verbs: make(map[string]registered, len(entries))}

	for i, ent := range entries {
		if ent.Handler == nil {
			return nil, fmt.Errorf("entry %d: %w", i, ErrNilHandler)
		}

		key := strings.ToLower(strings.TrimSpace(ent.Handler.Name()))
		if key == "" {
			return nil, fmt.Errorf("entry %d: %w", i, ErrEmptyVerb)
		}

		if existing, ok := reg.verbs[key]; ok {
			return nil, fmt.Errorf("%q as %s and %s: %w", key, existing.class, ent.Class, ErrDuplicateVerb)
		}

		reg.verbs[key] = registered{class: ent.Class, handler: ent.Handler}
	}

	return reg, nil
}

// Lookup gives the class and handler of the given verb. The bool is false if
// the verb is not registered.
func (reg *Registry) Lookup(verb string) (Class, Handler, bool) {
	r, ok := reg.verbs[strings.ToLower(verb)]
	if !ok {
		return ClassAction, nil, false
	}
	return r.class, r.handler, true
}

// Verbs gives every registered verb of the given class, sorted.
func (reg *Registry) Verbs(class Class) []string {
	var verbs []string
	for k, r := range reg.verbs {
		if r.class == class {
			verbs = append(verbs, k)
		}
	}
	sort.Strings(verbs)
	return verbs
}
