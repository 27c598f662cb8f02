package exercise

import (
	"errors"
	"fmt"
)

var ErrUnknownKind = errors.New("exercise: unknown kind")

type Kind string

const (
	KindVergence        Kind = "vergence"
	KindSaccades        Kind = "saccades"
	KindContainerSearch Kind = "container_search"
	KindSpatialHearing  Kind = "spatial_hearing"
)

// Kinds lists every exercise in menu order.
var Kinds = []Kind{KindVergence, KindSaccades, KindContainerSearch, KindSpatialHearing}

func (k Kind) Title() string {
	switch k {
	case KindVergence:
		return "Vergence"
	case KindSaccades:
		return "Saccades"
	case KindContainerSearch:
		return "Container search"
	case KindSpatialHearing:
		return "Spatial hearing"
	default:
		return string(k)
	}
}

func (k Kind) Description() string {
	switch k {
	case KindVergence:
		return "Find the diamond floating in the red/cyan pattern and press its arrow"
	case KindSaccades:
		return "Click each target before it moves on"
	case KindContainerSearch:
		return "Remember which boxes lit up, then pick them"
	case KindSpatialHearing:
		return "Listen for where the word comes from and click that speaker"
	default:
		return ""
	}
}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %s (available: %v)", ErrUnknownKind, s, Kinds)
}

type Factory func(Deps) Exercise

// Registry builds exercises by kind. The set is fixed.
type Registry struct {
	factories map[Kind]Factory
}

func NewRegistry() *Registry {
	r := &Registry{factories: make(map[Kind]Factory)}

	r.factories[KindVergence] = func(d Deps) Exercise { return NewVergence(d) }
	r.factories[KindSaccades] = func(d Deps) Exercise { return NewSaccades(d) }
	r.factories[KindContainerSearch] = func(d Deps) Exercise { return NewContainerSearch(d) }
	r.factories[KindSpatialHearing] = func(d Deps) Exercise { return NewSpatialHearing(d) }

	return r
}

func (r *Registry) New(k Kind, d Deps) (Exercise, error) {
	fn, ok := r.factories[k]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, k)
	}
	return fn(d), nil
}

// All builds one exercise of every kind, in menu order.
func (r *Registry) All(d Deps) []Exercise {
	out := make([]Exercise, 0, len(Kinds))
	for _, k := range Kinds {
		if fn, ok := r.factories[k]; ok {
			out = append(out, fn(d))
		}
	}
	return out
}
