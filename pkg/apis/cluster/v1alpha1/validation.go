package v1alpha1

import (
	"fmt"
	"net"
	"strings"
)

// Validate checks the configuration for structural errors. It returns the
// first problem found.
func (c *Cluster) Validate() error {
	err := c.validateNetwork()
	if err != nil {
		return err
	}

	err = c.validateNodes()
	if err != nil {
		return err
	}

	return c.validateComponents()
}

func (c *Cluster) validateNetwork() error {
	_, _, err := net.ParseCIDR(c.Spec.Network.PodCIDR)
	if err != nil {
		return fmt.Errorf("%w: podCIDR %q", ErrInvalidCIDR, c.Spec.Network.PodCIDR)
	}

	_, _, err = net.ParseCIDR(c.Spec.Network.ServiceCIDR)
	if err != nil {
		return fmt.Errorf("%w: serviceCIDR %q", ErrInvalidCIDR, c.Spec.Network.ServiceCIDR)
	}

	return nil
}

func (c *Cluster) validateNodes() error {
	// An empty node list is allowed; node-local commands like `cluster init`
	// operate on the machine they run on.
	if len(c.Spec.Nodes) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(c.Spec.Nodes))
	controlPlanes := 0

	for _, node := range c.Spec.Nodes {
		if !node.Role.IsValid() {
			return fmt.Errorf("%w: node %q has role %q", ErrInvalidNodeRole, node.Name, node.Role)
		}

		if node.Role == NodeRoleControlPlane {
			controlPlanes++
		}

		_, duplicate := seen[node.Name]
		if duplicate {
			return fmt.Errorf("%w: %q", ErrDuplicateNodeName, node.Name)
		}

		seen[node.Name] = struct{}{}
	}

	if controlPlanes == 0 {
		return ErrNoControlPlane
	}

	return nil
}

func (c *Cluster) validateComponents() error {
	components := c.Spec.Components

	if components.MetalLB.Enabled {
		err := validateAddressPool(components.MetalLB.AddressPool)
		if err != nil {
			return err
		}
	}

	grafanaLB := components.Monitoring.Enabled &&
		components.Monitoring.GrafanaServiceType == "LoadBalancer"
	if grafanaLB && !components.MetalLB.Enabled {
		return fmt.Errorf("%w: monitoring.grafanaServiceType", ErrLoadBalancerRequiresMetalLB)
	}

	return nil
}

// validateAddressPool accepts either a dash-separated IP range or a CIDR,
// the two forms MetalLB IPAddressPools support.
func validateAddressPool(pool string) error {
	if strings.Contains(pool, "-") {
		parts := strings.SplitN(pool, "-", 2)

		first := net.ParseIP(strings.TrimSpace(parts[0]))
		last := net.ParseIP(strings.TrimSpace(parts[1]))

		if first == nil || last == nil {
			return fmt.Errorf("%w: %q", ErrInvalidAddressPool, pool)
		}

		return nil
	}

	_, _, err := net.ParseCIDR(pool)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAddressPool, pool)
	}

	return nil
}
