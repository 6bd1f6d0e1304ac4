//go:build mage

package main

import (
	"errors"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Test groups test targets (all, unit, surreal).
type Test mg.Namespace

// All runs every test with the race detector.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Unit runs the tests in short mode.
func (Test) Unit() error {
	return sh.RunV(binGo, "test", "-short", "./...")
}

// Surreal starts a SurrealDB container and runs the remote client tests
// against it.
func (Test) Surreal() error {
	rt := containerRuntime()
	if rt == "" {
		return errors.New("test:surreal needs podman or docker")
	}
	if err := startSurreal(rt); err != nil {
		return err
	}
	defer stopSurreal(rt)

	env := map[string]string{
		"COURTNOTE_TEST_SURREAL_URL": "ws://127.0.0.1:" + surrealPort + "/rpc",
	}
	_, err := sh.Exec(env, os.Stdout, os.Stderr, binGo, "test", "-v", "-run", "Surreal", "./internal/remote/...")
	return err
}
