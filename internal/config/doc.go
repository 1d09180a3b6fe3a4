// Package config loads absviz settings through viper: built-in defaults, an
// optional YAML file, and ABSVIZ_* environment overrides, in increasing order
// of precedence. The Gemini credential is the only value most users set; it is
// read once at startup and handed to the insight pipeline explicitly.
package config
