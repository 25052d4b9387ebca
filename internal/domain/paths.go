package domain

import "path/filepath"

type DataFile string

const (
	MappingFile  DataFile = "mappings.yaml"
	DatabaseFile DataFile = "mediadb.db"
	NotesDir     DataFile = "notes"
)

// Paths holds the locations the application reads and writes under its
// output directory.
type Paths struct {
	RootDir      string
	MappingPath  string
	DatabasePath string
	NotesPath    string
}

// NewPaths creates a new Paths instance rooted at rootDir
func NewPaths(rootDir string) *Paths {
	return &Paths{
		RootDir:      rootDir,
		MappingPath:  makePath(rootDir, MappingFile),
		DatabasePath: makePath(rootDir, DatabaseFile),
		NotesPath:    makePath(rootDir, NotesDir),
	}
}

func makePath(rootDir string, f DataFile) string {
	return filepath.Join(rootDir, string(f))
}
