// Package tracker indexes the courses appearing in a schedule by canonical
// code, recording every term each code appears in.
package tracker

import "github.com/papapumpkin/degreeplan/internal/course"

// Entry is what the tracker knows about one course code.
type Entry struct {
	Subject string
	ClassID int
	Terms   []int
}

// Tracker records courses and the term ids they appear in. Codes iterate
// in first-seen order. A Tracker is built for one evaluation pass and is
// not safe for concurrent use.
type Tracker struct {
	entries map[string]*Entry
	order   []string
}

// New returns an empty tracker.
func New() *Tracker {
	return &Tracker{entries: make(map[string]*Entry)}
}

// Contains reports whether code has been added.
func (t *Tracker) Contains(code string) bool {
	_, ok := t.entries[code]
	return ok
}

// AddCourse records that c appears in termID. Adding a known code appends
// the term id to its existing entry.
func (t *Tracker) AddCourse(c course.Ref, termID int) {
	code := c.Code()
	if e, ok := t.entries[code]; ok {
		e.Terms = append(e.Terms, termID)
		return
	}
	t.entries[code] = &Entry{Subject: c.Subject, ClassID: c.ClassID, Terms: []int{termID}}
	t.order = append(t.order, code)
}

// AddCourses records every course in cs for termID.
func (t *Tracker) AddCourses(cs []course.Course, termID int) {
	for _, c := range cs {
		t.AddCourse(c.Ref, termID)
	}
}

// TermIDs returns the term ids recorded for code, or nil if absent.
func (t *Tracker) TermIDs(code string) []int {
	e, ok := t.entries[code]
	if !ok {
		return nil
	}
	out := make([]int, len(e.Terms))
	copy(out, e.Terms)
	return out
}

// Entry returns a copy of the entry for code.
func (t *Tracker) Entry(code string) (Entry, bool) {
	e, ok := t.entries[code]
	if !ok {
		return Entry{}, false
	}
	out := *e
	out.Terms = t.TermIDs(code)
	return out, true
}

// Codes returns every tracked code in first-seen order.
func (t *Tracker) Codes() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of distinct codes tracked.
func (t *Tracker) Len() int {
	return len(t.order)
}
