package catalog

import (
	"log/slog"
	"sort"
	"time"
)

type DuplicateEntry struct {
	ID        int
	CreatedAt time.Time
}

// DuplicateGroup lists records sharing a name, oldest first. The first
// entry is the one to keep.
type DuplicateGroup struct {
	Name    string
	Entries []DuplicateEntry
}

func (g DuplicateGroup) Keep() DuplicateEntry {
	return g.Entries[0]
}

func (g DuplicateGroup) Redundant() []DuplicateEntry {
	return g.Entries[1:]
}

func FindDuplicates(records []Record, entity, field string) []DuplicateGroup {
	byName := make(map[string][]DuplicateEntry)

	for _, record := range records {
		name, err := record.Field(entity, field)
		if err != nil {
			slog.Debug("Record skipped", "id", record.ID, "error", err)
			continue
		}
		byName[name] = append(byName[name], DuplicateEntry{ID: record.ID, CreatedAt: record.CreatedAt()})
	}

	groups := make([]DuplicateGroup, 0)
	for name, entries := range byName {
		if len(entries) < 2 {
			continue
		}

		sort.Slice(entries, func(i, j int) bool {
			if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
				return entries[i].CreatedAt.Before(entries[j].CreatedAt)
			}
			return entries[i].ID < entries[j].ID
		})
		groups = append(groups, DuplicateGroup{Name: name, Entries: entries})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Name < groups[j].Name
	})

	return groups
}
