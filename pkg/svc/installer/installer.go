package installer

import "context"

// Installer defines methods for installing and uninstalling components.
type Installer interface {
	// Install installs or upgrades the component and waits for it to become
	// ready.
	Install(ctx context.Context) error

	// Uninstall removes the component.
	Uninstall(ctx context.Context) error
}
