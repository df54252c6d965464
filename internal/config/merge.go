package config

// mergeMappings layers the environment mapping over the file mapping. For
// every section present in either input, environment keys overwrite
// identically named file keys per leaf and keys unique to either side
// survive. A zero-valued environment override (false, 0) replaces the file
// value like any other. Sections absent from both inputs stay absent;
// defaulting happens downstream during section construction. Neither input
// is mutated.
func mergeMappings(fileMapping, envMapping map[string]any) map[string]any {
	merged := make(map[string]any, len(fileMapping)+len(envMapping))
	for name, raw := range fileMapping {
		merged[name] = raw
	}
	for name, raw := range envMapping {
		envSection, ok := raw.(map[string]any)
		if !ok {
			merged[name] = raw
			continue
		}
		fileSection, _ := merged[name].(map[string]any)
		section := make(map[string]any, len(fileSection)+len(envSection))
		for key, value := range fileSection {
			section[key] = value
		}
		for key, value := range envSection {
			section[key] = value
		}
		merged[name] = section
	}
	return merged
}
