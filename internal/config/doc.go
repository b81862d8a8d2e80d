// Package config provides configuration structures and utilities for mutbench.
// It defines the main configuration options for running mutation rounds,
// analysis settings, and report generation preferences.
package config
