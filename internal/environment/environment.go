// Package environment detects where the process is running.
package environment

import (
	"bytes"
	"os"
)

// ContainerFilePath is the output directory mounted into the container image.
const ContainerFilePath = "/fileoutput"

// Probe checks container markers on a filesystem. The zero value is not
// usable; use Default or set both paths.
type Probe struct {
	DockerEnvPath string
	CgroupPath    string
}

// Default probes the real container markers.
var Default = Probe{
	DockerEnvPath: "/.dockerenv",
	CgroupPath:    "/proc/self/cgroup",
}

// IsDocker reports whether the marker file exists or the cgroup file
// mentions docker.
func (p Probe) IsDocker() bool {
	if info, err := os.Stat(p.DockerEnvPath); err == nil && !info.IsDir() {
		return true
	}
	data, err := os.ReadFile(p.CgroupPath)
	if err != nil {
		return false
	}
	return bytes.Contains(data, []byte("docker"))
}

// IsDocker probes the real container markers.
func IsDocker() bool {
	return Default.IsDocker()
}

// DefaultFilePath returns where output files go by default: the container
// mount when running in Docker, else the working directory.
func DefaultFilePath(p Probe) string {
	if p.IsDocker() {
		return ContainerFilePath
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
