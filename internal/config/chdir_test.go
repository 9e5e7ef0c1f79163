package config

import (
	"os"
	"testing"
)

// chdir changes the working directory for the rest of the test and restores
// it afterwards, like testing.T.Chdir (Go 1.24+) on older toolchains
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
