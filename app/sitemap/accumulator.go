package sitemap

import (
	"fmt"
	"time"
)

const DefaultPriority = 0.5

type Alternate struct {
	Language string
	Href     string
}

type URLEntry struct {
	Loc        string
	LastMod    time.Time
	Priority   float64
	Alternates []Alternate
}

// File is one finished sitemap chunk, ready to encode.
type File struct {
	Category string
	Language string
	Index    int
	Entries  []URLEntry
}

func (f File) Name() string {
	return FileName(f.Category, f.Language, f.Index)
}

func FileName(category, language string, index int) string {
	return fmt.Sprintf("%s-sitemap-%s-%d.xml", category, language, index)
}

// Accumulator holds the open file of a (category, language) stream.
// Index is the number the open file will get once emitted.
type Accumulator struct {
	Category string
	Language string
	Index    int
	Entries  []URLEntry
}

func NewAccumulator(category, language string) Accumulator {
	return Accumulator{
		Category: category,
		Language: language,
		Index:    1,
	}
}

func (a Accumulator) Open() bool {
	return len(a.Entries) > 0
}

// Accumulate appends entries to the open file and cuts a File every time it
// reaches max entries. The returned accumulator replaces the one passed in.
func Accumulate(acc Accumulator, entries []URLEntry, max int) ([]File, Accumulator) {
	if max < 1 {
		max = 1
	}

	var files []File
	for i, entry := range entries {
		if acc.Entries == nil {
			acc.Entries = make([]URLEntry, 0, min(max, len(entries)-i))
		}
		acc.Entries = append(acc.Entries, entry)

		if len(acc.Entries) >= max {
			files = append(files, acc.file())
			acc.Entries = nil
			acc.Index++
		}
	}

	return files, acc
}

// Drain emits the partially filled file, if any.
func Drain(acc Accumulator) (File, Accumulator, bool) {
	if !acc.Open() {
		return File{}, acc, false
	}

	file := acc.file()
	acc.Entries = nil
	acc.Index++

	return file, acc, true
}

func (a Accumulator) file() File {
	return File{
		Category: a.Category,
		Language: a.Language,
		Index:    a.Index,
		Entries:  a.Entries,
	}
}
