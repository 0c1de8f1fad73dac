// Package rules holds the graph's consistency rules as plain functions so the
// service layer and the client board apply them the same way.
package rules

import "relationmap/domain/core/entities"

// UnionTags returns existing extended with every id in added that it does not
// already contain. Order of first appearance is kept and duplicates inside
// either input are dropped, so repeated or reordered applications converge on
// the same set.
func UnionTags(existing []string, added ...string) []string {
	seen := make(map[string]struct{}, len(existing)+len(added))
	out := make([]string, 0, len(existing)+len(added))
	for _, list := range [][]string{existing, added} {
		for _, id := range list {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// NoteTagPropagation applies the rule that a tagged Note extends its owning
// Point's tags. Given the note as stored after an update and the tags carried
// by that update, it returns the Point to extend and the tags to union in.
// ok is false when the note has no owning Point or the update carried no tags.
func NoteTagPropagation(note *entities.Note, requested []string) (pointID string, tags []string, ok bool) {
	if note == nil || note.PointID == "" {
		return "", nil, false
	}
	tags = UnionTags(nil, requested...)
	if len(tags) == 0 {
		return "", nil, false
	}
	return note.PointID, tags, true
}
