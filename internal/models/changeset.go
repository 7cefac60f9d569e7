package models

// FileStatus is the normalized per-file change kind.
type FileStatus string

const (
	FileAdded    FileStatus = "added"
	FileModified FileStatus = "modified"
	FileRemoved  FileStatus = "removed"
	FileRenamed  FileStatus = "renamed"
)

type (
	// FileChange is one file of a branch comparison.
	FileChange struct {
		Filename         string     `json:"filename"`
		Status           FileStatus `json:"status"`
		Additions        int        `json:"additions"`
		Deletions        int        `json:"deletions"`
		PreviousFilename string     `json:"previous_filename,omitempty"`
	}

	// DiffStats aggregates line counts. Total is always Additions + Deletions.
	DiffStats struct {
		Additions int `json:"additions"`
		Deletions int `json:"deletions"`
		Total     int `json:"total"`
	}

	// ChangeSet is the result of comparing base to head. It is built once per request and not mutated.
	ChangeSet struct {
		Files []FileChange `json:"files"`
		Stats DiffStats    `json:"stats"`
	}
)

// NewChangeSet derives the stats from the files instead of trusting upstream totals.
func NewChangeSet(files []FileChange) *ChangeSet {
	cs := &ChangeSet{Files: files}
	if cs.Files == nil {
		cs.Files = []FileChange{}
	}
	for _, f := range cs.Files {
		cs.Stats.Additions += f.Additions
		cs.Stats.Deletions += f.Deletions
	}
	cs.Stats.Total = cs.Stats.Additions + cs.Stats.Deletions
	return cs
}

func (c *ChangeSet) CountByStatus(status FileStatus) int {
	if c == nil {
		return 0
	}
	n := 0
	for _, f := range c.Files {
		if f.Status == status {
			n++
		}
	}
	return n
}

func (c *ChangeSet) FileCount() int {
	if c == nil {
		return 0
	}
	return len(c.Files)
}

// Net is additions minus deletions.
func (s DiffStats) Net() int {
	return s.Additions - s.Deletions
}
