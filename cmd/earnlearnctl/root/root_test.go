package root

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--db", dbPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestAdminWorkflow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "family.db")

	out, err := run(t, db, "migrate")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.HasPrefix(out, "schema at version ") {
		t.Errorf("migrate output = %q", out)
	}

	out, err = run(t, db, "add-child", "Aria", "--code", "aria")
	if err != nil {
		t.Fatalf("add-child: %v", err)
	}
	if !strings.Contains(out, "Aria (id 1, code ARIA)") {
		t.Errorf("add-child output = %q", out)
	}

	if _, err := run(t, db, "add-user", "aria", "--role", "child", "--password", "kitten"); err == nil {
		t.Error("child account without --child should fail")
	}
	out, err = run(t, db, "add-user", "aria", "--role", "kid", "--child", "1", "--password", "kitten")
	if err != nil {
		t.Fatalf("add-user: %v", err)
	}
	if !strings.Contains(out, `created child account "aria"`) {
		t.Errorf("add-user output = %q", out)
	}

	out, err = run(t, db, "payday")
	if err != nil {
		t.Fatalf("payday: %v", err)
	}
	if !strings.Contains(out, "nothing to do") {
		t.Errorf("payday output = %q", out)
	}

	out, err = run(t, db, "spawn")
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if !strings.Contains(out, "0 instance(s) spawned") {
		t.Errorf("spawn output = %q", out)
	}

	out, err = run(t, db, "leaderboard")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if !strings.Contains(out, "RANK") || !strings.Contains(out, "Aria") {
		t.Errorf("leaderboard output = %q", out)
	}
}

func TestAddChildRequiresName(t *testing.T) {
	db := filepath.Join(t.TempDir(), "family.db")
	if _, err := run(t, db, "add-child", "--code", "X1"); err == nil {
		t.Error("expected error without a name")
	}
}

func TestVAPIDKeysSkipsDatabase(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, filepath.Join(dir, "never", "created.db"), "vapid-keys")
	if err != nil {
		t.Fatalf("vapid-keys: %v", err)
	}
	if !strings.Contains(out, "EARNLEARN_VAPID_PUBLIC_KEY=") || !strings.Contains(out, "EARNLEARN_VAPID_PRIVATE_KEY=") {
		t.Errorf("output = %q", out)
	}
}
