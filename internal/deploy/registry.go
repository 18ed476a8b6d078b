// Package deploy: Registry — the catalogue of configured services for one
// project/host pair.
package deploy

import (
	v1 "github.com/skiffd/skiff/api/v1"
	"github.com/skiffd/skiff/internal/core/logger"
	"github.com/skiffd/skiff/pkg/errs"
)

// Registry resolves configured services into ServiceUnits. The target and
// service list are loaded once from configuration and never mutated.
type Registry struct {
	target   v1.Target
	services []v1.ServiceSpec
	exec     Executor
	log      *logger.Logger
}

// NewRegistry constructs a Registry.
func NewRegistry(target v1.Target, services []v1.ServiceSpec, exec Executor, log *logger.Logger) *Registry {
	return &Registry{target: target, services: services, exec: exec, log: log}
}

// Target returns the session's remote target.
func (r *Registry) Target() v1.Target {
	return r.target
}

// Services returns the ordered configured service specs.
func (r *Registry) Services() []v1.ServiceSpec {
	return r.services
}

// Service resolves a service by name, or the first configured service when
// name is empty. An unknown name is a configuration failure, never silently
// defaulted; callers validate names against the configured list.
func (r *Registry) Service(name string) (*ServiceUnit, error) {
	if len(r.services) == 0 {
		return nil, errs.Newf(errs.ErrConfig, "registry.service",
			"no services configured — add one to skiff.yaml")
	}
	if name == "" {
		return NewServiceUnit(r.target, r.services[0], r.exec, r.log), nil
	}
	for _, spec := range r.services {
		if spec.Name == name {
			return NewServiceUnit(r.target, spec, r.exec, r.log), nil
		}
	}
	return nil, errs.Newf(errs.ErrServiceNotFound, "registry.service",
		"service %q not found in configuration", name).
		WithResource(name).
		WithAdvice("Run: skiff services")
}
