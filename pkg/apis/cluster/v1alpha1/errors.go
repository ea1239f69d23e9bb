package v1alpha1

import "errors"

var (
	// ErrUnknownComponent is returned when a component name is not part of
	// the homelab stack.
	ErrUnknownComponent = errors.New("unknown component")
	// ErrNoControlPlane is returned when the node list has no control-plane
	// node.
	ErrNoControlPlane = errors.New("at least one control-plane node is required")
	// ErrInvalidNodeRole is returned when a node declares an unsupported role.
	ErrInvalidNodeRole = errors.New("invalid node role")
	// ErrInvalidCIDR is returned when a network CIDR does not parse.
	ErrInvalidCIDR = errors.New("invalid CIDR")
	// ErrInvalidAddressPool is returned when the MetalLB address pool is
	// neither an IP range nor a CIDR.
	ErrInvalidAddressPool = errors.New("invalid metallb address pool")
	// ErrDuplicateNodeName is returned when two nodes share a name.
	ErrDuplicateNodeName = errors.New("duplicate node name")
	// ErrLoadBalancerRequiresMetalLB is returned when a component requests a
	// LoadBalancer service while MetalLB is disabled.
	ErrLoadBalancerRequiresMetalLB = errors.New(
		"LoadBalancer service type requires metallb to be enabled")
)
