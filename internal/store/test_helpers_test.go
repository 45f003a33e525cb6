package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/roach88/fsmcheck/internal/model"
	"github.com/roach88/fsmcheck/internal/verifier"
)

// createTestStore creates a new on-disk store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// doorMachine has one reachable non-final dead end ("jammed").
func doorMachine() *model.StateMachine {
	return &model.StateMachine{
		ID:   "door",
		Name: "Door",
		Type: model.MachineMoore,
		States: []model.State{
			{ID: "closed", Name: "Closed", IsInitial: true},
			{ID: "open", Name: "Open"},
			{ID: "jammed", Name: "Jammed"},
		},
		Transitions: []model.Transition{
			{ID: "t1", From: "closed", To: "open", Input: "push"},
			{ID: "t2", From: "open", To: "closed", Input: "pull"},
			{ID: "t3", From: "open", To: "jammed"},
		},
	}
}

// createTestRun builds a run for m with a freshly generated report.
func createTestRun(t *testing.T, id string, seq int64, m *model.StateMachine) Run {
	t.Helper()
	run, err := NewRun(id, seq, m, verifier.GenerateReport(m))
	if err != nil {
		t.Fatalf("NewRun() failed: %v", err)
	}
	return run
}

func getTableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		t.Fatalf("table_info(%s) failed: %v", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk); err != nil {
			t.Fatalf("scan table_info failed: %v", err)
		}
		cols = append(cols, name)
	}
	return cols
}

func getTableIndexes(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='index' AND tbl_name=?", table)
	if err != nil {
		t.Fatalf("index query for %s failed: %v", table, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan index name failed: %v", err)
		}
		names = append(names, name)
	}
	return names
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
