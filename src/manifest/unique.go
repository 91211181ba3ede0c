package manifest

import "errors"

// VerifyUnique checks that no two entries share a package name. Every
// repeat is reported against the first path seen for that name. Nameless
// entries, such as a private workspace root, are skipped.
func VerifyUnique(entries []*Entry) error {
	seen := make(map[string]string, len(entries))
	var errs []error

	for _, e := range entries {
		name := e.Manifest.Name
		if name == "" {
			continue
		}
		if first, ok := seen[name]; ok {
			errs = append(errs, &DuplicateNameError{Name: name, FirstPath: first, DuplicatePath: e.ManifestPath})
			continue
		}
		seen[name] = e.ManifestPath
	}

	return errors.Join(errs...)
}
