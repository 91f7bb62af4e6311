package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/yourname/moodtracker/internal"
)

type FileStorage struct {
	users         map[string]*UserRecord               // id -> user
	usersByEmail  map[string]*UserRecord               // email -> user
	moods         map[string]map[string]*internal.MoodEntry // userID -> date -> entry
	userMoodIndex map[string][]*internal.MoodEntry     // userID -> entries sorted by date descending
	mu            sync.RWMutex
	usersFile     string
	moodsFile     string
	saveUsersChan chan struct{}
	saveMoodsChan chan struct{}
	shutdownChan  chan struct{}
	shutdownOnce  sync.Once
	saveDelay     time.Duration
	logger        internal.Logger
}

func NewFileStorage(usersFile, moodsFile string, logger internal.Logger) (*FileStorage, error) {
	s := &FileStorage{
		users:         make(map[string]*UserRecord),
		usersByEmail:  make(map[string]*UserRecord),
		moods:         make(map[string]map[string]*internal.MoodEntry),
		userMoodIndex: make(map[string][]*internal.MoodEntry),
		usersFile:     usersFile,
		moodsFile:     moodsFile,
		saveUsersChan: make(chan struct{}, 1),
		saveMoodsChan: make(chan struct{}, 1),
		shutdownChan:  make(chan struct{}),
		saveDelay:     500 * time.Millisecond,
		logger:        logger,
	}

	if err := s.loadUsers(); err != nil {
		logger.Errorf("storage: failed to load users: %v", err)
		return nil, err
	}
	if err := s.loadMoods(); err != nil {
		logger.Errorf("storage: failed to load mood entries: %v", err)
		return nil, err
	}

	go s.saveWorker(s.saveUsersChan, s.saveUsers)
	go s.saveWorker(s.saveMoodsChan, s.saveMoods)

	return s, nil
}

func (s *FileStorage) loadUsers() error {
	file, err := os.Open(s.usersFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var users []*UserRecord
	if err := json.NewDecoder(file).Decode(&users); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		s.users[u.ID] = u
		s.usersByEmail[u.Email] = u
	}
	return nil
}

func (s *FileStorage) loadMoods() error {
	file, err := os.Open(s.moodsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var entries []*internal.MoodEntry
	if err := json.NewDecoder(file).Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if s.moods[e.UserID] == nil {
			s.moods[e.UserID] = make(map[string]*internal.MoodEntry)
		}
		s.moods[e.UserID][e.Date] = e
		s.userMoodIndex[e.UserID] = append(s.userMoodIndex[e.UserID], e)
	}

	// Sort each user's entries descending by date
	for userID := range s.userMoodIndex {
		sort.Slice(s.userMoodIndex[userID], func(i, j int) bool {
			return s.userMoodIndex[userID][i].Date > s.userMoodIndex[userID][j].Date
		})
	}
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) saveUsers() error {
	s.mu.RLock()
	users := make([]*UserRecord, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	s.mu.RUnlock()
	return atomicWriteFileJSON(s.usersFile, users)
}

func (s *FileStorage) saveMoods() error {
	s.mu.RLock()
	entries := make([]*internal.MoodEntry, 0)
	for _, byDate := range s.moods {
		for _, e := range byDate {
			entries = append(entries, e)
		}
	}
	s.mu.RUnlock()
	return atomicWriteFileJSON(s.moodsFile, entries)
}

func (s *FileStorage) saveWorker(signal chan struct{}, save func() error) {
	timer := time.NewTimer(s.saveDelay)
	defer timer.Stop()

	for {
		select {
		case <-signal:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := save(); err != nil {
				s.logger.Errorf("storage: error saving: %v", err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

func (s *FileStorage) Close() error {
	s.shutdownOnce.Do(func() { close(s.shutdownChan) })

	// Save pending data synchronously on shutdown
	if err := s.saveUsers(); err != nil {
		return err
	}
	return s.saveMoods()
}

// --- UserRepository ---
func (s *FileStorage) Create(ctx context.Context, rec *UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.usersByEmail[rec.Email]; exists {
		return ErrEmailTaken
	}
	s.users[rec.ID] = rec
	s.usersByEmail[rec.Email] = rec
	s.signal(s.saveUsersChan)
	return nil
}

func (s *FileStorage) GetByEmail(ctx context.Context, email string) (*UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.usersByEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	rec := *u
	return &rec, nil
}

func (s *FileStorage) GetByID(ctx context.Context, id string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	user := u.User
	return &user, nil
}

func (s *FileStorage) Update(ctx context.Context, user *internal.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	delete(s.usersByEmail, rec.Email)
	rec.User = *user
	s.usersByEmail[rec.Email] = rec
	s.signal(s.saveUsersChan)
	return nil
}

// --- MoodRepository ---
func (s *FileStorage) Save(ctx context.Context, entry *internal.MoodEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.moods[entry.UserID] == nil {
		s.moods[entry.UserID] = make(map[string]*internal.MoodEntry)
	}
	_, replaced := s.moods[entry.UserID][entry.Date]
	s.moods[entry.UserID][entry.Date] = entry

	index := s.userMoodIndex[entry.UserID]
	if replaced {
		for i, existing := range index {
			if existing.Date == entry.Date {
				index[i] = entry
				break
			}
		}
	} else {
		// Insert maintaining descending date order
		inserted := false
		for i, existing := range index {
			if existing.Date < entry.Date {
				index = append(index[:i], append([]*internal.MoodEntry{entry}, index[i:]...)...)
				inserted = true
				break
			}
		}
		if !inserted {
			index = append(index, entry)
		}
	}
	s.userMoodIndex[entry.UserID] = index
	s.signal(s.saveMoodsChan)
	return nil
}

func (s *FileStorage) GetByDate(ctx context.Context, userID, date string) (*internal.MoodEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byDate, ok := s.moods[userID]
	if !ok {
		return nil, ErrNotFound
	}
	e, ok := byDate[date]
	if !ok {
		return nil, ErrNotFound
	}
	entry := *e
	return &entry, nil
}

func (s *FileStorage) List(ctx context.Context, userID string, limit int) ([]internal.MoodEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	index, ok := s.userMoodIndex[userID]
	if !ok {
		return []internal.MoodEntry{}, nil
	}
	if limit <= 0 || limit > len(index) {
		limit = len(index)
	}
	entries := make([]internal.MoodEntry, limit)
	for i := 0; i < limit; i++ {
		entries[i] = *index[i]
	}
	return entries, nil
}

func (s *FileStorage) signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// --- Compile-time assertions ---
var _ UserRepository = (*FileStorage)(nil)
var _ MoodRepository = (*FileStorage)(nil)
