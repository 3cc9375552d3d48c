package coursestore

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/papapumpkin/degreeplan/internal/course"
)

// DefaultCacheSize is used when NewCached is given a non-positive size.
const DefaultCacheSize = 1024

// Cached is a course.Lookup that remembers answers from another Lookup,
// misses included. Errors are not cached.
type Cached struct {
	next  course.Lookup
	cache *lru.Cache[string, *course.Course]
}

// NewCached wraps next with an LRU cache holding up to size answers.
func NewCached(next course.Lookup, size int) (*Cached, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, *course.Course](size)
	if err != nil {
		return nil, fmt.Errorf("coursestore: new cache: %w", err)
	}
	return &Cached{next: next, cache: c}, nil
}

// FetchCourse returns a copy of the cached answer, asking the wrapped
// lookup on a cache miss.
func (c *Cached) FetchCourse(ctx context.Context, subject string, classID int) (*course.Course, error) {
	key := course.Ref{Subject: subject, ClassID: classID}.Code()
	if v, ok := c.cache.Get(key); ok {
		return clone(v), nil
	}
	v, err := c.next.FetchCourse(ctx, subject, classID)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, v)
	return clone(v), nil
}

// Len returns the number of cached answers.
func (c *Cached) Len() int {
	return c.cache.Len()
}

// Purge drops every cached answer.
func (c *Cached) Purge() {
	c.cache.Purge()
}

func clone(c *course.Course) *course.Course {
	if c == nil {
		return nil
	}
	cp := c.Clone()
	return &cp
}
