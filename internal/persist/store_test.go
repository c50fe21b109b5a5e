package persist

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/five82/panegrid/internal/layout"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "layout.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return map[string]Store{"memory": NewMemory(), "sqlite": db}
}

func sampleLayout() layout.Layout {
	return layout.Layout{
		{ID: "a", X: 0, Y: 0, Width: 4, Height: 2, Placed: true},
		{ID: "b", X: 4, Y: 0, Width: 2, Height: 3, Placed: true},
		{ID: "pending", Width: 2, Height: 2},
	}
}

func TestStore_PositionsRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.SavePositions("main", layout.DefaultView, sampleLayout()); err != nil {
				t.Fatalf("SavePositions: %v", err)
			}
			got, err := s.Positions("main", layout.DefaultView)
			if err != nil {
				t.Fatalf("Positions: %v", err)
			}
			want := map[string]layout.Rect{
				"a": {X: 0, Y: 0, Width: 4, Height: 2},
				"b": {X: 4, Y: 0, Width: 2, Height: 3},
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("Positions = %+v, want %+v", got, want)
			}

			// Saving again replaces the set.
			if err := s.SavePositions("main", layout.DefaultView, sampleLayout()[:1]); err != nil {
				t.Fatalf("SavePositions: %v", err)
			}
			got, _ = s.Positions("main", layout.DefaultView)
			if len(got) != 1 {
				t.Fatalf("Positions after replace = %+v, want only a", got)
			}

			other, err := s.Positions("main", "other-view")
			if err != nil || len(other) != 0 {
				t.Fatalf("Positions(other-view) = %+v, %v; want empty", other, err)
			}
		})
	}
}

func TestStore_Views(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			v := layout.View{Name: "review", Entries: map[string]layout.ViewEntry{
				"a": {Priority: 1, Width: 3, Height: 2},
				"b": {Priority: 0, Width: 5, Height: 5},
			}}
			if err := s.SaveView("main", v); err != nil {
				t.Fatalf("SaveView: %v", err)
			}
			if err := s.SaveView("main", layout.View{Name: "empty"}); err != nil {
				t.Fatalf("SaveView(empty): %v", err)
			}

			views, err := s.Views("main")
			if err != nil {
				t.Fatalf("Views: %v", err)
			}
			if !reflect.DeepEqual(views["review"].Entries, v.Entries) {
				t.Fatalf("review entries = %+v, want %+v", views["review"].Entries, v.Entries)
			}
			if _, ok := views["empty"]; !ok {
				t.Fatalf("empty view missing: %+v", views)
			}

			if err := s.DeleteView("main", "review"); err != nil {
				t.Fatalf("DeleteView: %v", err)
			}
			views, _ = s.Views("main")
			if _, ok := views["review"]; ok {
				t.Fatalf("review still present after delete")
			}
		})
	}
}

func TestStore_ForkAndDeleteEnv(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.ForkEnv("nope", "dst"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("ForkEnv(missing) = %v, want ErrNotFound", err)
			}

			if err := s.SavePositions("main", layout.DefaultView, sampleLayout()); err != nil {
				t.Fatalf("SavePositions: %v", err)
			}
			if err := s.SaveView("main", layout.View{Name: "v", Entries: map[string]layout.ViewEntry{"a": {Priority: 0, Width: 1, Height: 1}}}); err != nil {
				t.Fatalf("SaveView: %v", err)
			}
			if err := s.ForkEnv("main", "copy"); err != nil {
				t.Fatalf("ForkEnv: %v", err)
			}
			if err := s.ForkEnv("main", "copy"); !errors.Is(err, ErrExists) {
				t.Fatalf("ForkEnv onto existing = %v, want ErrExists", err)
			}

			pos, _ := s.Positions("copy", layout.DefaultView)
			if len(pos) != 2 {
				t.Fatalf("forked positions = %+v, want 2", pos)
			}
			views, _ := s.Views("copy")
			if len(views["v"].Entries) != 1 {
				t.Fatalf("forked views = %+v", views)
			}

			envs, err := s.Envs()
			if err != nil {
				t.Fatalf("Envs: %v", err)
			}
			if !reflect.DeepEqual(envs, []string{"copy", "main"}) {
				t.Fatalf("Envs = %v, want [copy main]", envs)
			}

			if err := s.DeleteEnv("main"); err != nil {
				t.Fatalf("DeleteEnv: %v", err)
			}
			envs, _ = s.Envs()
			if !reflect.DeepEqual(envs, []string{"copy"}) {
				t.Fatalf("Envs after delete = %v, want [copy]", envs)
			}
		})
	}
}

func TestSQLite_ReopenKeepsState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.db")
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := db.SavePositions("main", layout.DefaultView, sampleLayout()); err != nil {
		t.Fatalf("SavePositions: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	got, err := db.Positions("main", layout.DefaultView)
	if err != nil || len(got) != 2 {
		t.Fatalf("Positions after reopen = %+v, %v", got, err)
	}
	if db.Path() != path {
		t.Fatalf("Path = %q, want %q", db.Path(), path)
	}
}

func TestSQLite_FeedsReconciler(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "layout.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()
	if err := db.SavePositions("main", layout.DefaultView, sampleLayout()); err != nil {
		t.Fatalf("SavePositions: %v", err)
	}

	r := layout.New(layout.Options{Env: "main", Cols: 12, Records: db})
	r.UpsertItem(layout.Item{ID: "b"}, nil, nil)
	if r.Pending("b") {
		t.Fatalf("b should be restored from the store")
	}
	if got := r.Layout()[0].Rect(); got != (layout.Rect{X: 4, Y: 0, Width: 2, Height: 3}) {
		t.Fatalf("b = %+v", got)
	}
}
