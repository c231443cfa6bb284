package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/divVerent/midisplit/internal/splitter"
)

// store holds uploaded songs. Songs are never modified after upload.
type store struct {
	mu    sync.Mutex
	songs map[uuid.UUID]*splitter.Song
}

func newStore() *store {
	return &store{
		songs: map[uuid.UUID]*splitter.Song{},
	}
}

func (s *store) Add(song *splitter.Song) uuid.UUID {
	id := uuid.New()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.songs[id] = song
	return id
}

func (s *store) Get(id uuid.UUID) *splitter.Song {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.songs[id]
}

func (s *store) Delete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, found := s.songs[id]
	delete(s.songs, id)
	return found
}
