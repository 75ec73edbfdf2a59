// Package scripts embeds the built-in Risor classification scripts.
package scripts

import "embed"

// FS holds the built-in scripts. java.risor is the entry point; it imports
// the helpers in labels.risor.
//
//go:embed *.risor
var FS embed.FS

// Entry is the script evaluated for every construct.
const Entry = "java.risor"
