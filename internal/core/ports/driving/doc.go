// Package driving defines the interfaces the CLI calls INTO core services.
package driving
