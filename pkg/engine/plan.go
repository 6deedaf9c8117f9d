package engine

import (
	"fmt"

	"github.com/openedge/fastsync/pkg/config"
)

// resourceUpdate is one planned in-place update. The remote update call is
// keyed by the name the resource currently has in the draft version.
type resourceUpdate struct {
	oldName  string
	resource config.Resource
}

// kindPlan is the minimal mutation set for one resource kind: resources to
// create, update in place, and delete, inside the draft version. Order
// within a kind does not matter; order across kinds does.
type kindPlan struct {
	kind    config.Kind
	creates []config.Resource
	updates []resourceUpdate
	deletes []string
}

func (p kindPlan) empty() bool {
	return len(p.creates) == 0 && len(p.updates) == 0 && len(p.deletes) == 0
}

// buildPlan computes the per-kind mutation plans in the fixed dependency
// order. A nil current configuration means the draft was created from
// scratch and every desired resource is a create.
func buildPlan(desired, current *config.Configuration) []kindPlan {
	plans := make([]kindPlan, 0, len(config.KindOrder))
	for _, kind := range config.KindOrder {
		var currentItems []config.Resource
		if current != nil {
			currentItems = current.Items(kind)
		}
		plans = append(plans, diffKind(kind, desired.Items(kind), currentItems))
	}
	return plans
}

// diffKind matches desired against current resources by name. A desired
// resource with no current counterpart is a create; a name match with
// unequal fields is an update; a matched current resource is consumed either
// way. Whatever remains unconsumed exists remotely but is no longer desired,
// and is deleted.
func diffKind(kind config.Kind, desired, current []config.Resource) kindPlan {
	plan := kindPlan{kind: kind}

	remaining := make(map[string]config.Resource, len(current))
	for _, item := range current {
		remaining[item.ResourceName()] = item
	}

	for _, want := range desired {
		name := want.ResourceName()
		have, found := remaining[name]
		if !found {
			plan.creates = append(plan.creates, want)
			continue
		}
		delete(remaining, name)
		if !want.Equal(have) {
			plan.updates = append(plan.updates, resourceUpdate{oldName: name, resource: want})
		}
	}

	// Deletes are collected in current declaration order to keep action
	// output deterministic.
	for _, item := range current {
		if _, left := remaining[item.ResourceName()]; left {
			plan.deletes = append(plan.deletes, item.ResourceName())
		}
	}
	return plan
}

// describe renders the plan as human-readable action strings.
func (p kindPlan) describe() []string {
	var out []string
	for _, res := range p.creates {
		out = append(out, fmt.Sprintf("create %s %q", p.kind, res.ResourceName()))
	}
	for _, up := range p.updates {
		out = append(out, fmt.Sprintf("update %s %q", p.kind, up.oldName))
	}
	for _, name := range p.deletes {
		out = append(out, fmt.Sprintf("delete %s %q", p.kind, name))
	}
	return out
}
