// Package file provides the TOML-backed ConfigStore adapter plus
// hot-reload support for the scheduler's tunables.
package file
