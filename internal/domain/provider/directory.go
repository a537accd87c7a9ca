package provider

import (
	"context"

	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

// StatusReporter is implemented by every Factory.
type StatusReporter interface {
	Capability() Capability
	ConfiguredProviders() StatusList
}

// Directory indexes the factories by capability for the listing endpoint.
type Directory struct {
	reporters map[Capability]StatusReporter
}

func NewDirectory(reporters ...StatusReporter) *Directory {
	d := &Directory{reporters: make(map[Capability]StatusReporter, len(reporters))}
	for _, r := range reporters {
		d.reporters[r.Capability()] = r
	}
	return d
}

// Status returns the provider list of the raw capability name.
func (d *Directory) Status(ctx context.Context, rawCapability string) (StatusList, error) {
	capability, ok := ParseCapability(rawCapability)
	if !ok {
		return StatusList{}, platformerrors.NewValidationError(ctx, "capability", "unknown capability", "")
	}
	reporter, ok := d.reporters[capability]
	if !ok {
		return StatusList{}, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"no factory registered for capability "+string(capability), nil, "")
	}
	return reporter.ConfiguredProviders(), nil
}
