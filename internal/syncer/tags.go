package syncer

// MergeTags returns existing tags in their original order followed by the
// incoming tags not already present, in first-seen order. Duplicates and
// empty names are dropped from both inputs.
func MergeTags(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	merged := make([]string, 0, len(existing)+len(incoming))

	for _, group := range [][]string{existing, incoming} {
		for _, tag := range group {
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			merged = append(merged, tag)
		}
	}
	return merged
}

// tagsDiffer compares position by position, so a reordering counts as a change.
func tagsDiffer(existing, merged []string) bool {
	if len(existing) != len(merged) {
		return true
	}
	for i := range existing {
		if existing[i] != merged[i] {
			return true
		}
	}
	return false
}

func nonEmptyTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
