package session

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"
)

// credentialFile is the on-disk shape of the two key-value slots.
type credentialFile struct {
	Token string          `json:"token,omitempty"`
	User  json.RawMessage `json:"user,omitempty"`
}

// FileBackend keeps the credential slots in a single JSON file, written
// atomically via temp-file rename.
type FileBackend struct {
	mu   sync.Mutex
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (b *FileBackend) ReadToken() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, err := b.load()
	if err != nil {
		return "", err
	}
	return f.Token, nil
}

func (b *FileBackend) WriteToken(token string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, err := b.load()
	if err != nil {
		f = &credentialFile{}
	}
	f.Token = token
	return b.save(f)
}

func (b *FileBackend) ReadUser() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, err := b.load()
	if err != nil {
		return nil, err
	}
	if len(f.User) == 0 {
		return nil, errors.New("session: no stored user")
	}
	return f.User, nil
}

func (b *FileBackend) WriteUser(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, err := b.load()
	if err != nil {
		f = &credentialFile{}
	}
	f.User = json.RawMessage(data)
	return b.save(f)
}

func (b *FileBackend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	err := os.Remove(b.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (b *FileBackend) load() (*credentialFile, error) {
	file, err := os.Open(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &credentialFile{}, nil
		}
		return nil, err
	}
	defer file.Close()

	var f credentialFile
	if err := json.NewDecoder(file).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &credentialFile{}, nil
		}
		return nil, err
	}
	return &f, nil
}

func (b *FileBackend) save(f *credentialFile) error {
	tempFile := b.path + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		out.Close()
		os.Remove(tempFile)
		return err
	}

	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(tempFile)
		return err
	}

	if err := out.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, b.path)
}

// MemoryBackend holds the credential slots in memory. Used in tests and as
// an explicit "never persist" mode.
type MemoryBackend struct {
	mu    sync.Mutex
	token string
	user  []byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) ReadToken() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.token, nil
}

func (b *MemoryBackend) WriteToken(token string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = token
	return nil
}

func (b *MemoryBackend) ReadUser() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.user == nil {
		return nil, errors.New("session: no stored user")
	}
	return b.user, nil
}

func (b *MemoryBackend) WriteUser(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.user = append([]byte(nil), data...)
	return nil
}

func (b *MemoryBackend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = ""
	b.user = nil
	return nil
}

// --- Compile-time assertions ---
var _ Backend = (*FileBackend)(nil)
var _ Backend = (*MemoryBackend)(nil)
