// Package config provides a configuration struct and options to adjust the configuration.
//
// The configuration struct holds all configuration options for the archive processing.
// The configuration options can be adjusted using the option pattern style.
//
// The default configuration skips common video formats and bounds the number of
// concurrent uploads, so that archives with many entries cannot exhaust connections.
package config
