// Package installer defines the component installer contract and the factory
// that assembles installers for the components enabled in a cluster
// configuration. Each component lives in its own subpackage and installs via
// the shared helm client.
package installer
