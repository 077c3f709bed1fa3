// Package logging builds the slog loggers used across face-anon.
//
// Two formats are supported: "console" renders one human-readable line per
// record (`ts LEVEL component: msg key=value ...`) and "json" renders
// structured records with short keys. Level labels are colorized only when
// the destination is a terminal.
package logging
