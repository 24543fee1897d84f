package di

import (
	"fmt"
	"sync"
)

// Token is a typed key for a service. The type parameter keeps lookups
// type-safe without casts at every call site.
type Token[T any] struct {
	name string
}

// NewToken creates a token with a unique name. Names are conventionally
// "<context>.<Service>" for public services and "<context>:<dep>" for
// private ones.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the token's registry name.
func (t Token[T]) Name() string {
	return t.name
}

// provider defers construction until first resolution so registration
// order between modules does not matter.
type provider[T any] struct {
	once    sync.Once
	build   func(ServiceRegistry) T
	service T
}

func (p *provider[T]) resolve(sr ServiceRegistry) T {
	p.once.Do(func() {
		p.service = p.build(sr)
	})
	return p.service
}

// RegisterToken registers a lazily-constructed service under the token.
func RegisterToken[T any](c Container, token Token[T], build func(ServiceRegistry) T) {
	c.Register(token.name, &provider[T]{build: build})
}

// GetToken resolves the service, building it on first access. Panics on
// missing registration or type mismatch, both are wiring bugs.
func GetToken[T any](sr ServiceRegistry, token Token[T]) T {
	raw := sr.MustGet(token.name)
	p, ok := raw.(*provider[T])
	if !ok {
		panic(fmt.Sprintf("di: service %q has unexpected type %T", token.name, raw))
	}
	return p.resolve(sr)
}
