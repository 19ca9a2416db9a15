package network

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/vmcli/vmcli/internal/logging"
)

// Kind identifies one layer of a cluster network stack.
type Kind string

const (
	KindNetwork          Kind = "network"
	KindSubnet           Kind = "subnet"
	KindSecurityBoundary Kind = "security-boundary"
	KindGateway          Kind = "gateway"
	KindRouteTable       Kind = "route-table"
)

// View holds the provider IDs of the network resources backing a cluster.
// Fields for layers a provider does not model stay empty.
type View struct {
	NetworkID          string `json:"network_id,omitempty" yaml:"network_id,omitempty"`
	SubnetID           string `json:"subnet_id,omitempty" yaml:"subnet_id,omitempty"`
	SecurityBoundaryID string `json:"security_boundary_id,omitempty" yaml:"security_boundary_id,omitempty"`
	GatewayID          string `json:"gateway_id,omitempty" yaml:"gateway_id,omitempty"`
	RouteTableID       string `json:"route_table_id,omitempty" yaml:"route_table_id,omitempty"`
}

// ID returns the resource ID recorded for the given kind.
func (v *View) ID(k Kind) string {
	switch k {
	case KindNetwork:
		return v.NetworkID
	case KindSubnet:
		return v.SubnetID
	case KindSecurityBoundary:
		return v.SecurityBoundaryID
	case KindGateway:
		return v.GatewayID
	case KindRouteTable:
		return v.RouteTableID
	default:
		return ""
	}
}

func (v *View) set(k Kind, id string) {
	switch k {
	case KindNetwork:
		v.NetworkID = id
	case KindSubnet:
		v.SubnetID = id
	case KindSecurityBoundary:
		v.SecurityBoundaryID = id
	case KindGateway:
		v.GatewayID = id
	case KindRouteTable:
		v.RouteTableID = id
	}
}

// Complete reports whether every declared layer has a resource ID.
func (v *View) Complete(steps []Step) bool {
	for _, step := range steps {
		if v.ID(step.Kind) == "" {
			return false
		}
	}
	return true
}

// Step wires one network layer into a template.
//
// Find reports the ID of an existing resource carrying the cluster tag, or
// an empty string when none exists. Finding more than one candidate is the
// step's job to reject. Create provisions the resource and may read the IDs
// of earlier layers from the view. Delete removes the resource by ID.
type Step struct {
	Kind   Kind
	Find   func(ctx context.Context) (string, error)
	Create func(ctx context.Context, view *View) (string, error)
	Delete func(ctx context.Context, id string) error
}

// Template is an ordered plan for a cluster's network stack. Steps are
// declared bottom-up, so each Create may depend on the layers before it.
type Template struct {
	Provider string
	Cluster  string
	Steps    []Step
}

// Ensure walks the steps in declaration order, reusing resources discovered
// by their cluster tag and creating whatever is missing. Repeated calls
// converge on the same view. On error it returns the partial view along with
// the failure, so callers can report how far the stack got.
func (t *Template) Ensure(ctx context.Context) (View, error) {
	var view View
	for _, step := range t.Steps {
		id, err := step.Find(ctx)
		if err != nil {
			return view, fmt.Errorf("find %s: %w", step.Kind, err)
		}
		if id != "" {
			t.log(step.Kind).WithField("id", id).Debug("Reusing existing resource")
			view.set(step.Kind, id)
			continue
		}
		id, err = step.Create(ctx, &view)
		if err != nil {
			return view, fmt.Errorf("create %s: %w", step.Kind, err)
		}
		t.log(step.Kind).WithField("id", id).Info("Created resource")
		view.set(step.Kind, id)
	}
	return view, nil
}

// Discover walks the steps in declaration order running only the Find
// functions. It never creates anything, making it safe for status reporting.
func (t *Template) Discover(ctx context.Context) (View, error) {
	var view View
	for _, step := range t.Steps {
		id, err := step.Find(ctx)
		if err != nil {
			return view, fmt.Errorf("find %s: %w", step.Kind, err)
		}
		view.set(step.Kind, id)
	}
	return view, nil
}

func (t *Template) log(k Kind) *logrus.Entry {
	return logging.L().WithFields(logrus.Fields{
		"provider": t.Provider,
		"cluster":  t.Cluster,
		"resource": string(k),
	})
}
