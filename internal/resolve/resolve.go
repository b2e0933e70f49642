// Package resolve turns IP addresses into display text.
package resolve

import (
	"context"
	"net"
	"net/netip"
	"sync"
	"time"
)

// Resolver renders one address for display.
type Resolver interface {
	Addr(a netip.Addr) string
}

// Literal renders addresses as their numeric form.
type Literal struct{}

func (Literal) Addr(a netip.Addr) string { return a.String() }

// DNS resolves addresses to names via reverse DNS, caching results for the
// lifetime of the resolver. Lookup failures fall back to the numeric form
// and are cached too, so a dead resolver slows each address down once.
type DNS struct {
	timeout time.Duration

	mu    sync.Mutex
	cache map[netip.Addr]string
}

// NewDNS creates a caching reverse-DNS resolver.
func NewDNS(timeout time.Duration) *DNS {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &DNS{
		timeout: timeout,
		cache:   make(map[netip.Addr]string),
	}
}

func (r *DNS) Addr(a netip.Addr) string {
	r.mu.Lock()
	if name, ok := r.cache[a]; ok {
		r.mu.Unlock()
		return name
	}
	r.mu.Unlock()

	name := r.lookup(a)

	r.mu.Lock()
	r.cache[a] = name
	r.mu.Unlock()
	return name
}

func (r *DNS) lookup(a netip.Addr) string {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	names, err := net.DefaultResolver.LookupAddr(ctx, a.String())
	if err != nil || len(names) == 0 {
		return a.String()
	}
	name := names[0]
	if len(name) > 0 && name[len(name)-1] == '.' {
		name = name[:len(name)-1]
	}
	return name
}
