// Package config loads and validates the application configuration.
//
// Settings are resolved in three layers, each overriding the previous:
//
//  1. Built-in defaults (Default)
//  2. A YAML config file (explicit path, or jeaudit.yaml /
//     configs/jeaudit.yaml when present)
//  3. Environment variables with the JEAUDIT_ prefix, for example
//     JEAUDIT_LOGGING_LEVEL or JEAUDIT_OUTPUT_DIR
//
// The merged configuration is validated with struct tags before use, so
// a misconfigured run fails at startup instead of partway through a
// report.
package config
