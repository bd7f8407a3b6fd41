// Package config provides configuration loading, merging, and validation
// facilities for the application.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// The main entry point is [GetConfig]. Remote (cloud) settings are optional:
// when absent the application runs in local-only mode and the sync layer
// reads and writes the embedded database exclusively.
package config
