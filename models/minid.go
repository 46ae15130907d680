package models

// Identifier record returned by the minid resolution service.
type MinidRecord map[string]any

func (m MinidRecord) Identifier() string {
	id, _ := m["identifier"].(string)
	return id
}

// Returns the locations the identifier resolves to.
func (m MinidRecord) Locations() []string {
	raw, _ := m["location"].([]any)
	locations := make([]string, 0, len(raw))
	for _, l := range raw {
		if s, ok := l.(string); ok {
			locations = append(locations, s)
		}
	}
	return locations
}
