// Package config loads and validates face-anon configuration.
//
// Configuration is read from TOML once at process start and handed to the
// pipeline, detector, and editor constructors by reference. No package keeps
// its own global settings, so tests can build a Config in memory and pass
// fakes wherever needed.
//
// Resolution order for the file: explicit path, then
// ~/.config/face-anon/config.toml, then ./face-anon.toml. A missing file is
// not an error; defaults apply. The editor API key falls back to the
// OPENAI_API_KEY environment variable.
package config
