// Package configfiles embeds the default configuration shipped with pyvenv.
package configfiles

import "embed"

// MetaFile lists the configuration files to load, in order.
const MetaFile = "meta.yaml"

// FS holds meta.yaml and every file it references.
//
//go:embed *.yaml
var FS embed.FS
