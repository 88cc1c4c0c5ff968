// Copyright 2026 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package command

import (
	lru "github.com/hashicorp/golang-lru"
	errors "gopkg.in/src-d/go-errors.v1"
)

// DefaultStoreSize is the number of templates kept when no size is given.
const DefaultStoreSize = 1024

// ErrKeyNotFound is returned when the key could not be found in the store.
var ErrKeyNotFound = errors.NewKind("command: key %d not found in cache")

type entry struct {
	key      Key
	template *Template
}

// Store is a bounded LRU of command templates shared by the caches of all
// queries of an engine. It is safe for concurrent use.
type Store struct {
	size  int
	cache *lru.Cache
}

// NewStore creates a store holding at most size templates.
func NewStore(size int) (*Store, error) {
	if size <= 0 {
		size = DefaultStoreSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Store{size: size, cache: cache}, nil
}

// Put stores the template for the given key, evicting the least recently
// used one when the store is full.
func (s *Store) Put(key Key, t *Template) error {
	h, err := key.Hash()
	if err != nil {
		return err
	}
	s.cache.Add(h, &entry{key: key, template: t})
	return nil
}

// Get returns the template stored for key. Templates stored under a key
// whose hash collides with key but whose shape differs are never returned.
func (s *Store) Get(key Key) (*Template, error) {
	h, err := key.Hash()
	if err != nil {
		return nil, err
	}
	v, ok := s.cache.Get(h)
	if !ok {
		return nil, ErrKeyNotFound.New(h)
	}
	e := v.(*entry)
	if !e.key.Equal(key) {
		return nil, ErrKeyNotFound.New(h)
	}
	return e.template, nil
}

// Len returns the number of stored templates.
func (s *Store) Len() int { return s.cache.Len() }

// Purge removes every template.
func (s *Store) Purge() { s.cache.Purge() }
