package skill

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// SKILLFileName is the descriptor file expected in every skill directory.
const SKILLFileName = "SKILL.md"

// Store loads skill descriptors from a directory and caches parsed results
// for the lifetime of the process. Parse failures are never cached, so a
// corrected descriptor becomes visible on the next access. Instructions are
// deliberately not cached: they are read fresh on every request so edits to
// a skill body take effect without a restart.
type Store struct {
	skillsDir string

	mu    sync.RWMutex
	cache map[string]*Skill

	loadCount atomic.Int64 // successful descriptor parses, for stats and tests
}

// NewStore creates a skill store rooted at skillsDir.
func NewStore(skillsDir string) *Store {
	return &Store{
		skillsDir: skillsDir,
		cache:     make(map[string]*Skill),
	}
}

// Dir returns the skills root directory.
func (st *Store) Dir() string {
	return st.skillsDir
}

// GetMetadata returns the parsed descriptor for a skill, reading and
// validating SKILL.md on first access and serving the cached value after.
func (st *Store) GetMetadata(name string) (*Skill, error) {
	st.mu.RLock()
	if s, ok := st.cache[name]; ok {
		st.mu.RUnlock()
		return s, nil
	}
	st.mu.RUnlock()

	// Parse outside the lock. A concurrent miss may parse the same
	// descriptor twice; the duplicate work is harmless and the first
	// cached entry wins.
	s, err := ParseSKILL(filepath.Join(st.skillsDir, name, SKILLFileName))
	if err != nil {
		return nil, err
	}
	st.loadCount.Add(1)

	st.mu.Lock()
	defer st.mu.Unlock()
	if cached, ok := st.cache[name]; ok {
		return cached, nil
	}
	st.cache[name] = s
	return s, nil
}

// GetInstructions returns the instructional body of a skill, frontmatter
// stripped. Never cached.
func (st *Store) GetInstructions(name string) (string, error) {
	return ParseInstructions(filepath.Join(st.skillsDir, name, SKILLFileName))
}

// Names enumerates candidate skill names: subdirectories of the skills root
// containing a SKILL.md, in lexical directory order. No descriptor is parsed.
func (st *Store) Names() ([]string, error) {
	entries, err := os.ReadDir(st.skillsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("skills directory does not exist: %s", st.skillsDir)
		}
		return nil, fmt.Errorf("failed to read skills directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(st.skillsDir, entry.Name(), SKILLFileName)); err != nil {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// LoadCount returns the number of descriptor parses performed so far.
func (st *Store) LoadCount() int64 {
	return st.loadCount.Load()
}
