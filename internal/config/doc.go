// Package config loads runtime configuration from multiple sources (YAML files,
// environment variables, CLI flags) with precedence: CLI flags > YAML config >
// Environment variables > Defaults. It exposes the stock length, planner
// limits, logging and HTTP server settings to the rest of the application.
package config
