package router

import (
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// Module mounts one resource's routes onto the public and the JWT-guarded
// group.
type Module interface {
	Mount(public, authed *gin.RouterGroup)
}

// Optional: lower values mount first, default 100.
type prioritizer interface{ Priority() int }

type Registry struct {
	mu   sync.Mutex
	mods []Module
}

func (r *Registry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mods = append(r.mods, m)
}

func (r *Registry) MountAll(public, authed *gin.RouterGroup) {
	r.mu.Lock()
	mods := append([]Module(nil), r.mods...)
	r.mu.Unlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.Mount(public, authed)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
