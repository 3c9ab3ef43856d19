package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeEnvFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	return path
}

// unsetAfter clears keys a test expects the loader to set.
func unsetAfter(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		_ = os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for _, k := range keys {
			_ = os.Unsetenv(k)
		}
	})
}

func TestLoadEnvFilesParsesCommonForms(t *testing.T) {
	unsetAfter(t, "DOTENV_PORT", "DOTENV_MODEL", "DOTENV_BUDGET", "DOTENV_PATCH", "DOTENV_EMPTY")
	path := writeEnvFile(t, t.TempDir(), ".env", `# local overrides
DOTENV_PORT=4000
export DOTENV_MODEL="gpt-5"
DOTENV_BUDGET=625 # gold
DOTENV_PATCH='7.39d # not a comment'
DOTENV_EMPTY=
`)

	if got := loadEnvFiles(path); len(got) != 1 {
		t.Fatalf("expected one loaded file, got %v", got)
	}
	want := map[string]string{
		"DOTENV_PORT":   "4000",
		"DOTENV_MODEL":  "gpt-5",
		"DOTENV_BUDGET": "625",
		"DOTENV_PATCH":  "7.39d # not a comment",
		"DOTENV_EMPTY":  "",
	}
	for k, v := range want {
		got, ok := os.LookupEnv(k)
		if !ok || got != v {
			t.Fatalf("%s = %q (set=%v), want %q", k, got, ok, v)
		}
	}
}

func TestLoadEnvFilesKeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	first := writeEnvFile(t, dir, ".env", "DOTENV_TEST_A=file\nDOTENV_TEST_B=file\n")
	second := writeEnvFile(t, dir, "cmd.env", "DOTENV_TEST_B=second\nDOTENV_TEST_C=second\n")
	t.Setenv("DOTENV_TEST_A", "process")
	unsetAfter(t, "DOTENV_TEST_B", "DOTENV_TEST_C")

	loaded := loadEnvFiles(first, filepath.Join(dir, "missing.env"), second)
	if len(loaded) != 2 {
		t.Fatalf("missing files must be skipped, loaded %v", loaded)
	}
	for k, v := range map[string]string{
		"DOTENV_TEST_A": "process",
		"DOTENV_TEST_B": "file",
		"DOTENV_TEST_C": "second",
	} {
		if got := os.Getenv(k); got != v {
			t.Fatalf("%s = %q, want %q", k, got, v)
		}
	}
}
