// Package storagetest provides an in-memory storage.ObjectStore for tests.
package storagetest

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Object is a stored blob.
type Object struct {
	Body        []byte
	ContentType string
}

// Store is an in-memory object store. Setting UploadErr, DeleteErr or
// ListErr makes the matching call fail without changing state.
type Store struct {
	mu      sync.Mutex
	objects map[string]Object

	UploadErr error
	DeleteErr error
	ListErr   error

	Uploads int
	Deletes int
}

func New() *Store {
	return &Store{objects: make(map[string]Object)}
}

func (s *Store) Upload(_ context.Context, key string, body []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Uploads++
	if s.UploadErr != nil {
		return s.UploadErr
	}
	s.objects[key] = Object{Body: append([]byte(nil), body...), ContentType: contentType}
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deletes++
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	delete(s.objects, key)
	return nil
}

func (s *Store) List(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	var keys []string
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) URL(key string) string {
	return "https://cdn.test/" + key
}

func (s *Store) Ping(context.Context) error {
	return nil
}

// Get returns the object stored under key.
func (s *Store) Get(key string) (Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	return obj, ok
}

// Put seeds an object without counting it as an upload.
func (s *Store) Put(key string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = Object{Body: body}
}
