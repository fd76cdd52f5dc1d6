// Package file provides file-based implementations of driven port interfaces.
//
// ConfigStore keeps settings in ~/.cvemirror/config.toml. Values can be
// shadowed at startup from environment variables (see DefaultEnvBindings),
// which is how container deployments configure the mirror.
package file
