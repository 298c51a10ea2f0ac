package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/rlfeatures/internal/httpserver/deps"
)

// Registrar mounts one group of routes.
type Registrar func(r chi.Router, d deps.Deps)

var registry []Registrar

// Register adds registrars, typically from a file's init().
func Register(regs ...Registrar) {
	registry = append(registry, regs...)
}

// RegisterAll mounts every registered route. Called once per router.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, reg := range registry {
		reg(r, d)
	}
}
