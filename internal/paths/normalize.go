// Package paths rewrites shelved-file paths, which arrive relative to
// the submitting client's working directory with varying ../ depth,
// onto one shared ancestor so Swarm can merge shelve updates into an
// open review against a single root.
package paths

import "strings"

// InferSeparator picks the separator the submitting client used. The
// client's OS is unknown server-side, so it is inferred from the
// workspace root.
func InferSeparator(root string) string {
	if strings.Contains(root, `\`) {
		return `\`
	}
	return "/"
}

// Normalize rewrites files onto the deepest common ancestor of cwd.
//
// Depot-rooted entries (leading doubled separator) pass through
// untouched. For the rest, the longest leading ../ run (maxParents)
// decides how far up the tree the shared root sits: each path drops its
// own ../ run and gains the cwd segments between the shared root and
// its own base, and cwd loses its last maxParents segments. When no
// path climbs (maxParents zero) everything is returned as-is.
func Normalize(files []string, cwd, sep string) ([]string, string) {
	depotPrefix := sep + sep

	maxParents := 0
	for _, f := range files {
		if strings.HasPrefix(f, depotPrefix) {
			continue
		}
		if n := leadingParents(split(f, sep)); n > maxParents {
			maxParents = n
		}
	}
	if maxParents == 0 {
		return files, cwd
	}

	// A trailing separator would split into an empty last segment and
	// make the root land one level too deep.
	cwdSegs := split(strings.TrimSuffix(cwd, sep), sep)
	if maxParents > len(cwdSegs) {
		maxParents = len(cwdSegs)
	}

	out := make([]string, len(files))
	for i, f := range files {
		if strings.HasPrefix(f, depotPrefix) {
			out[i] = f
			continue
		}
		segs := split(f, sep)
		numParents := leadingParents(segs)
		rest := segs[numParents:]
		if numParents > maxParents {
			numParents = maxParents
		}

		// Segments of cwd between the shared root and this path's base.
		prefix := cwdSegs[len(cwdSegs)-maxParents : len(cwdSegs)-numParents]

		joined := make([]string, 0, len(prefix)+len(rest))
		joined = append(joined, prefix...)
		joined = append(joined, rest...)
		out[i] = strings.Join(joined, sep)
	}

	newCwd := strings.Join(cwdSegs[:len(cwdSegs)-maxParents], sep)
	return out, newCwd
}

// leadingParents counts the run of ".." segments at the front of segs.
func leadingParents(segs []string) int {
	n := 0
	for _, s := range segs {
		if s != ".." {
			break
		}
		n++
	}
	return n
}

func split(p, sep string) []string {
	return strings.Split(p, sep)
}
