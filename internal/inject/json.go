package inject

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DeepMerge merges source into target and returns a new map; neither
// input is mutated. Nested objects merge recursively, arrays concatenate
// with duplicates dropped (first occurrence wins), and any other
// conflict resolves in source's favor.
func DeepMerge(target, source map[string]any) map[string]any {
	result := make(map[string]any, len(target)+len(source))
	for k, v := range target {
		result[k] = v
	}
	for key, srcVal := range source {
		tgtVal, exists := result[key]
		if !exists {
			result[key] = srcVal
			continue
		}
		if tgtMap, ok := tgtVal.(map[string]any); ok {
			if srcMap, ok := srcVal.(map[string]any); ok {
				result[key] = DeepMerge(tgtMap, srcMap)
				continue
			}
		}
		if tgtArr, ok := tgtVal.([]any); ok {
			if srcArr, ok := srcVal.([]any); ok {
				result[key] = mergeArrays(tgtArr, srcArr)
				continue
			}
		}
		result[key] = srcVal
	}
	return result
}

// mergeArrays concatenates target then source, dropping elements whose
// canonical JSON form already appeared. Order of first occurrence is
// preserved, so ["a","b"] merged with ["b","c"] gives ["a","b","c"].
func mergeArrays(target, source []any) []any {
	merged := make([]any, 0, len(target)+len(source))
	seen := make(map[string]struct{}, len(target)+len(source))
	appendUnique := func(items []any) {
		for _, item := range items {
			key := canonicalJSON(item)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, item)
		}
	}
	appendUnique(target)
	appendUnique(source)
	return merged
}

// canonicalJSON serializes a value for structural comparison. Go's
// marshaler sorts object keys, so two objects with the same fields
// compare equal regardless of authoring order.
func canonicalJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(b)
}

// JSON merges fragment into the JSON document fileContent and returns
// the re-serialized document: two-space indent, sorted keys, trailing
// newline. An empty jsonPath merges at the root; "$.a.b.c" walks (and
// creates) intermediate objects; any other string is a single top-level
// key, dots included. filePath is used only in error messages.
func JSON(fileContent, jsonPath string, fragment map[string]any, filePath string) (string, error) {
	var root map[string]any
	decoder := json.NewDecoder(strings.NewReader(fileContent))
	// Preserve number literals so untouched values round-trip exactly.
	decoder.UseNumber()
	if err := decoder.Decode(&root); err != nil {
		return "", fmt.Errorf("parsing JSON in %s: %w", filePath, err)
	}
	if decoder.More() {
		return "", fmt.Errorf("parsing JSON in %s: trailing data after document", filePath)
	}

	if jsonPath == "" {
		root = DeepMerge(root, fragment)
	} else {
		mergeAtPath(root, jsonPath, fragment)
	}

	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing JSON for %s: %w", filePath, err)
	}
	return string(out) + "\n", nil
}

// pathSegments splits "$.a.b.c" into its keys. A string without the "$."
// prefix addresses one top-level key verbatim.
func pathSegments(jsonPath string) []string {
	if rest, ok := strings.CutPrefix(jsonPath, "$."); ok {
		return strings.Split(rest, ".")
	}
	return []string{jsonPath}
}

func mergeAtPath(root map[string]any, jsonPath string, fragment map[string]any) {
	segs := pathSegments(jsonPath)
	cur := root
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[seg] = next
		}
		cur = next
	}
	last := segs[len(segs)-1]
	if existing, ok := cur[last].(map[string]any); ok {
		cur[last] = DeepMerge(existing, fragment)
	} else {
		cur[last] = fragment
	}
}
