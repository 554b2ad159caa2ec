package refdata

// Record is one entity known to exist in the destination environment.
// Entities are addressable by up to two keys: the platform string id and
// the legacy numeric id (kept as a string so lookups stay uniform).
type Record struct {
	ID       string `json:"id,omitempty"`
	RemoteID string `json:"remoteId,omitempty"`
	Name     string `json:"name,omitempty"`

	// Tag is populated for sounds only; it is the token used inside
	// {soundTag} references in announcement text.
	Tag string `json:"tag,omitempty"`
}

// Context is the read-only snapshot of destination-environment entities the
// clone engine validates references against. The engine never queries
// external systems; callers load this once per clone.
type Context struct {
	Sounds         []Record `json:"sounds,omitempty"`
	Users          []Record `json:"users,omitempty"`
	Groups         []Record `json:"groups,omitempty"`
	Skills         []Record `json:"skills,omitempty"`
	ExternalUsers  []Record `json:"externalUsers,omitempty"`
	ExternalGroups []Record `json:"externalGroups,omitempty"`
}

// Exists reports whether candidate matches either key of any record.
// An empty candidate is never present. Pure; no I/O.
func Exists(candidate string, records []Record) bool {
	if candidate == "" {
		return false
	}
	for _, r := range records {
		if r.ID != "" && r.ID == candidate {
			return true
		}
		if r.RemoteID != "" && r.RemoteID == candidate {
			return true
		}
	}
	return false
}

// SoundTagKnown reports whether tag matches the tag of any known sound.
func (c Context) SoundTagKnown(tag string) bool {
	if tag == "" {
		return false
	}
	for _, s := range c.Sounds {
		if s.Tag != "" && s.Tag == tag {
			return true
		}
	}
	return false
}
