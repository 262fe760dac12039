package config

import "fmt"

// extensionType describes an extension type found in info files.
type extensionType struct {
	name        string
	shipsConfig bool // whether extensions of this type have config/install
}

// knownExtensionTypes maps the "type" key of info files to its handling.
// Theme engines never carry configuration and are ignored.
var knownExtensionTypes = map[string]extensionType{
	"module":       {name: "module", shipsConfig: true},
	"profile":      {name: "profile", shipsConfig: true},
	"theme":        {name: "theme", shipsConfig: true},
	"theme_engine": {name: "theme_engine", shipsConfig: false},
}

// resolveExtensionType resolves the info file type. An empty type is
// treated as a module. Unknown types are treated as modules and reported.
func resolveExtensionType(t string) (extensionType, bool) {
	if t == "" {
		return knownExtensionTypes["module"], true
	}
	if ext, exists := knownExtensionTypes[t]; exists {
		return ext, true
	}
	return extensionType{name: t, shipsConfig: true}, false
}

// formatUnknownTypeWarning formats a warning message for unknown extension types.
func formatUnknownTypeWarning(name, extType, source string) string {
	return fmt.Sprintf(
		"Warning: Unknown extension type '%s' for '%s' in %s. Treating it as a module. "+
			"If this is incorrect, define it explicitly in "+DefaultConfigFile,
		extType, name, source,
	)
}
