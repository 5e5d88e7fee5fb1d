// Package config loads richdoc settings.
//
// Settings come from three places, later ones winning: built-in defaults,
// a TOML file and RICHDOC_* environment variables.
//
//	[editor]
//	max_undo_entries = 500
//	markdown_shortcuts = true
//
//	[markdown]
//	syntax = "normal"
//
//	[spelling]
//	enabled = true
//	dictionary = "/usr/share/dict/words"
//
//	[scripts]
//	reactions = ["smartquotes.lua"]
//
// Unknown keys are rejected so typos surface as errors. Watch reloads the
// file whenever it changes on disk.
package config
