//go:build mage

package main

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"time"
)

// SurrealDB test container settings.
const (
	surrealImage     = "surrealdb/surrealdb:v2.1.4"
	surrealContainer = "courtnote-surreal-test"
	surrealPort      = "18000"
	surrealUser      = "root"
	surrealPass      = "root"
)

// containerRuntime returns "podman" or "docker" if a working runtime
// is available, or "" if neither is usable. It checks both that the
// binary exists on PATH and that it can connect to its daemon/machine.
func containerRuntime() string {
	for _, name := range []string{"podman", "docker"} {
		if _, err := exec.LookPath(name); err != nil {
			continue
		}
		if exec.Command(name, "info").Run() != nil {
			fmt.Fprintf(os.Stderr, "WARNING: %s found on PATH but not usable (is the daemon/machine running?)\n", name)
			continue
		}
		return name
	}
	return ""
}

// startSurreal runs an in-memory SurrealDB server and waits until its port
// accepts connections.
func startSurreal(rt string) error {
	stopSurreal(rt)
	cmd := exec.Command(rt, "run", "-d", "--rm",
		"--name", surrealContainer,
		"-p", surrealPort+":8000",
		surrealImage,
		"start", "--user", surrealUser, "--pass", surrealPass, "memory")
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("starting %s: %w", surrealImage, err)
	}

	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", "127.0.0.1:"+surrealPort, time.Second)
		if err == nil {
			conn.Close()
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	stopSurreal(rt)
	return fmt.Errorf("surrealdb did not listen on port %s within 30s", surrealPort)
}

// stopSurreal removes the test container. Errors are ignored because the
// container may not exist.
func stopSurreal(rt string) {
	_ = exec.Command(rt, "rm", "-f", surrealContainer).Run()
}
