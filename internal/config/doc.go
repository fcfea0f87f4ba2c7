// Package config loads the transmitter configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// MINKA_* environment variables. The command line applies its flags on top
// and calls Validate once more.
package config
