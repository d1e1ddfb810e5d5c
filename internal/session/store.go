package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/picosparking/zonaazul-admin/internal/zonaazul"
)

const sessionFile = "session.json"

// StoredSession is the on-disk session state. The field names are the same
// fixed keys the web dashboard keeps in local storage.
type StoredSession struct {
	Token        string         `json:"zonaazul_token,omitempty"`
	RefreshToken string         `json:"zonaazul_refresh_token,omitempty"`
	User         *zonaazul.User `json:"zonaazul_user,omitempty"`
}

// Store persists the session under the user's Zona Azul directory.
type Store struct {
	mu   sync.Mutex
	path string
}

// DefaultDir resolves where session state lives: ZONAAZUL_HOME when set,
// otherwise ~/.zonaazul.
func DefaultDir() string {
	if dir := os.Getenv("ZONAAZUL_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zonaazul"
	}
	return filepath.Join(home, ".zonaazul")
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &Store{path: filepath.Join(dir, sessionFile)}, nil
}

// Load reads the stored session. A missing file is a logged-out session, not
// an error.
func (s *Store) Load() (StoredSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return StoredSession{}, nil
		}
		return StoredSession{}, err
	}

	var stored StoredSession
	if err := json.Unmarshal(data, &stored); err != nil {
		// Corrupt file counts as no session.
		return StoredSession{}, nil
	}
	return stored, nil
}

func (s *Store) Save(stored StoredSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the session file. Removing a file that is already gone is not
// an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
