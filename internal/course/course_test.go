package course

import (
	"context"
	"errors"
	"testing"
)

func TestRefCode(t *testing.T) {
	t.Parallel()
	r := Ref{Subject: "CS", ClassID: 2500}
	if got := r.Code(); got != "CS2500" {
		t.Errorf("Code() = %q, want %q", got, "CS2500")
	}
	if !r.Equal(Ref{Subject: "CS", ClassID: 2500}) {
		t.Error("expected equal refs")
	}
	if r.Equal(Ref{Subject: "CS", ClassID: 2510}) {
		t.Error("expected refs with different ids to differ")
	}
}

func TestParseCode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    Ref
		wantErr bool
	}{
		{"CS2500", Ref{"CS", 2500}, false},
		{"cs 2500", Ref{"CS", 2500}, false},
		{"MATH1341", Ref{"MATH", 1341}, false},
		{"2500", Ref{}, true},
		{"CS", Ref{}, true},
		{"C-S2500", Ref{}, true},
		{"", Ref{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCode(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCode) {
					t.Fatalf("ParseCode(%q) error = %v, want ErrInvalidCode", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCode(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseCode(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestExprLeaves(t *testing.T) {
	t.Parallel()
	e := And(Leaf("CS", 1800), Or(Leaf("CS", 2500), And(Leaf("MATH", 1341))))
	got := e.Leaves()
	want := []string{"CS1800", "CS2500", "MATH1341"}
	if len(got) != len(want) {
		t.Fatalf("Leaves() returned %d refs, want %d", len(got), len(want))
	}
	for i, r := range got {
		if r.Code() != want[i] {
			t.Errorf("Leaves()[%d] = %s, want %s", i, r.Code(), want[i])
		}
	}
}

func TestCourseClone(t *testing.T) {
	t.Parallel()
	pre := And(Leaf("CS", 1800), Or(Leaf("CS", 2500), Leaf("CS", 2505)))
	orig := Course{Ref: Ref{Subject: "CS", ClassID: 3500}, NUPaths: []string{"ND"}, Prereqs: &pre}
	cp := orig.Clone()
	cp.NUPaths[0] = "WI"
	cp.Prereqs.Values[1].Values[0].ClassID = 1
	if orig.NUPaths[0] != "ND" {
		t.Errorf("NUPaths shared: %v", orig.NUPaths)
	}
	if got := orig.Prereqs.Values[1].Values[0].ClassID; got != 2500 {
		t.Errorf("prereq tree shared: nested class id = %d", got)
	}
	if cp.Coreqs != nil {
		t.Errorf("Coreqs = %+v, want nil", cp.Coreqs)
	}
}

func TestHasCatalogData(t *testing.T) {
	t.Parallel()
	if (Course{Ref: Ref{"CS", 2500}}).HasCatalogData() {
		t.Error("bare reference should carry no catalog data")
	}
	if !(Course{Ref: Ref{"CS", 2500}, CreditsMin: 4}).HasCatalogData() {
		t.Error("course with credits should carry catalog data")
	}
}

func TestLookupFunc(t *testing.T) {
	t.Parallel()
	l := LookupFunc(func(_ context.Context, subject string, classID int) (*Course, error) {
		if subject == "CS" && classID == 2500 {
			return &Course{Ref: Ref{subject, classID}, CreditsMin: 4}, nil
		}
		return nil, nil
	})
	c, err := l.FetchCourse(context.Background(), "CS", 2500)
	if err != nil || c == nil || c.CreditsMin != 4 {
		t.Fatalf("FetchCourse(CS, 2500) = %+v, %v", c, err)
	}
	c, err = l.FetchCourse(context.Background(), "CS", 9999)
	if err != nil || c != nil {
		t.Fatalf("FetchCourse(CS, 9999) = %+v, %v, want nil, nil", c, err)
	}
}
