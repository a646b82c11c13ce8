// Package ports defines the interfaces the build engine depends on.
package ports
