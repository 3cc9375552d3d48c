package coursestore

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papapumpkin/degreeplan/internal/course"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "courses.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func fundies2() course.Course {
	prereq := course.Or(course.Leaf("CS", 2500), course.Leaf("CS", 2505))
	coreq := course.Leaf("CS", 2511)
	return course.Course{
		Ref:        course.Ref{Subject: "CS", ClassID: 2510},
		Name:       "Fundamentals of Computer Science 2",
		CreditsMin: 4,
		CreditsMax: 4,
		NUPaths:    []string{"ND", "FQ"},
		Prereqs:    &prereq,
		Coreqs:     &coreq,
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("enables WAL", func(t *testing.T) {
		t.Parallel()
		s := testStore(t)
		var mode string
		require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
		assert.Equal(t, "wal", mode)
	})

	t.Run("idempotent schema creation", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "twice.db")
		s1, err := Open(context.Background(), path)
		require.NoError(t, err)
		require.NoError(t, s1.Put(context.Background(), fundies2()))
		s1.Close()

		s2, err := Open(context.Background(), path)
		require.NoError(t, err)
		defer s2.Close()
		n, err := s2.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("invalid path returns error", func(t *testing.T) {
		t.Parallel()
		_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "x.db"))
		assert.Error(t, err)
	})
}

func TestPutFetch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := testStore(t)

	want := fundies2()
	require.NoError(t, s.Put(ctx, want))

	got, err := s.FetchCourse(ctx, "CS", 2510)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestFetchMissing(t *testing.T) {
	t.Parallel()
	got, err := testStore(t).FetchCourse(context.Background(), "CS", 9999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPutUpserts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := testStore(t)

	c := course.Course{Ref: course.Ref{Subject: "MATH", ClassID: 1341}, Name: "Calculus 1", CreditsMin: 4, CreditsMax: 4}
	require.NoError(t, s.Put(ctx, c))
	c.Name = "Calculus 1 for Science and Engineering"
	c.CreditsMin = 5
	c.CreditsMax = 5
	require.NoError(t, s.Put(ctx, c))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.FetchCourse(ctx, "MATH", 1341)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 5, got.CreditsMin)
	assert.Equal(t, "Calculus 1 for Science and Engineering", got.Name)
	assert.Nil(t, got.Prereqs)
	assert.Empty(t, got.NUPaths)
}

func TestPutEmpty(t *testing.T) {
	t.Parallel()
	assert.NoError(t, testStore(t).Put(context.Background()))
}

func TestStoreConcurrentAccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := testStore(t)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := course.Course{Ref: course.Ref{Subject: "CS", ClassID: 3000 + i}, CreditsMin: 4, CreditsMax: 4}
			assert.NoError(t, s.Put(ctx, c))
			_, err := s.FetchCourse(ctx, "CS", 3000+i)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, n)
}

// countingLookup counts calls through to a fixed course set.
type countingLookup struct {
	mu      sync.Mutex
	calls   int
	courses map[string]course.Course
	err     error
}

func (l *countingLookup) FetchCourse(_ context.Context, subject string, classID int) (*course.Course, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	c, ok := l.courses[course.Ref{Subject: subject, ClassID: classID}.Code()]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func TestCached(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	next := &countingLookup{courses: map[string]course.Course{"CS2510": fundies2()}}
	c, err := NewCached(next, 8)
	require.NoError(t, err)

	for range 3 {
		got, err := c.FetchCourse(ctx, "CS", 2510)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Fundamentals of Computer Science 2", got.Name)
	}
	assert.Equal(t, 1, next.calls)

	for range 2 {
		got, err := c.FetchCourse(ctx, "CS", 1)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
	assert.Equal(t, 2, next.calls, "misses are cached")
	assert.Equal(t, 2, c.Len())

	c.Purge()
	_, err = c.FetchCourse(ctx, "CS", 2510)
	require.NoError(t, err)
	assert.Equal(t, 3, next.calls)
}

func TestCachedReturnsCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, err := NewCached(&countingLookup{courses: map[string]course.Course{"CS2510": fundies2()}}, 0)
	require.NoError(t, err)

	first, err := c.FetchCourse(ctx, "CS", 2510)
	require.NoError(t, err)
	first.Name = "changed"

	second, err := c.FetchCourse(ctx, "CS", 2510)
	require.NoError(t, err)
	assert.Equal(t, "Fundamentals of Computer Science 2", second.Name)
}

func TestCachedCopiesAreDeep(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, err := NewCached(&countingLookup{courses: map[string]course.Course{"CS2510": fundies2()}}, 0)
	require.NoError(t, err)

	first, err := c.FetchCourse(ctx, "CS", 2510)
	require.NoError(t, err)
	first.NUPaths[0] = "XX"
	first.Prereqs.Values[0].ClassID = 9999
	first.Coreqs.ClassID = 9999

	second, err := c.FetchCourse(ctx, "CS", 2510)
	require.NoError(t, err)
	assert.Equal(t, []string{"ND", "FQ"}, second.NUPaths)
	assert.Equal(t, 2500, second.Prereqs.Values[0].ClassID)
	assert.Equal(t, 2511, second.Coreqs.ClassID)
}

func TestCachedDoesNotCacheErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	boom := errors.New("boom")
	next := &countingLookup{err: boom}
	c, err := NewCached(next, 4)
	require.NoError(t, err)

	_, err = c.FetchCourse(ctx, "CS", 2500)
	assert.ErrorIs(t, err, boom)
	_, err = c.FetchCourse(ctx, "CS", 2500)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, next.calls)
	assert.Equal(t, 0, c.Len())
}

func TestCachedOverStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := testStore(t)
	require.NoError(t, s.Put(ctx, fundies2()))

	var l course.Lookup
	l, err := NewCached(s, 16)
	require.NoError(t, err)
	got, err := l.FetchCourse(ctx, "CS", 2510)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 4, got.CreditsMax)
}
