package storage

import "github.com/yourname/moodtracker/internal"

func NewFileRepositories(usersFile, moodsFile string, logger internal.Logger) (UserRepository, MoodRepository, error) {
	storage, err := NewFileStorage(usersFile, moodsFile, logger)
	if err != nil {
		return nil, nil, err
	}
	return storage, storage, nil
}

func NewPostgresRepositories(dsn string, logger internal.Logger) (UserRepository, MoodRepository, error) {
	storage, err := NewPostgresStorage(dsn, logger)
	if err != nil {
		return nil, nil, err
	}
	return storage, storage, nil
}
