// Package jsoncopy copies selected top-level keys from one JSON file into
// others, e.g. keeping name and version of a dist/package.json in step with
// the package it is built from.
package jsoncopy

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/sofmeright/workspace-tools/src/jsondoc"
)

// DefaultSource is the file copied from when none is given.
const DefaultSource = "package.json"

// Result reports what happened to one target file.
type Result struct {
	Path    string
	Created bool     // target was missing or unreadable and started empty
	Copied  []string // keys written
	Removed []string // keys deleted because the source lacks them
}

// CopyKeys sets each key of every target to the source's value. A key the
// source does not have is removed from the target. Existing target keys
// keep their position and new ones are appended. The source must load; a
// target that is missing or not a JSON object is treated as {}.
//
// Targets are written one after another; a write failure stops the run and
// earlier targets stay written.
func CopyKeys(source string, targets, keys []string, indent int) ([]Result, error) {
	src, err := jsondoc.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("loading source %s: %w", source, err)
	}

	results := make([]Result, 0, len(targets))
	for _, path := range targets {
		res := Result{Path: path}

		dst, err := jsondoc.ReadFile(path)
		if err != nil {
			log.WithError(err).WithField("path", path).Debug("target unreadable, starting from empty object")
			dst = jsondoc.New()
			res.Created = true
		}

		for _, key := range keys {
			raw, ok := src.Raw(key)
			if !ok {
				if dst.Has(key) {
					dst.Delete(key)
					res.Removed = append(res.Removed, key)
				}
				continue
			}
			if err := dst.SetRaw(key, raw); err != nil {
				return results, fmt.Errorf("%s: %w", path, err)
			}
			res.Copied = append(res.Copied, key)
		}

		if err := dst.WriteFile(path, indent); err != nil {
			return results, fmt.Errorf("saving %s: %w", path, err)
		}
		results = append(results, res)
	}
	return results, nil
}
