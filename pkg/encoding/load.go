package encoding

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/snapdump/snapdump/pkg/logflags"
)

var loadOnce sync.Once
var loadedRegistry *Registry
var loadErr error

// Load queries the converter at iconvPath for its supported encodings and
// builds a registry from them. It is invoked at most once per process;
// subsequent calls return the first result, including a failed one. There
// is no partial or cached fallback: if the converter cannot be run the
// registry stays permanently unavailable.
func Load(iconvPath string) (*Registry, error) {
	loadOnce.Do(func() {
		loadedRegistry, loadErr = enumerate(iconvPath)
	})
	return loadedRegistry, loadErr
}

func enumerate(iconvPath string) (*Registry, error) {
	cmd := exec.Command(iconvPath, "-l")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	logflags.RegistryLogger().Debugf("enumerating encodings: %s -l", iconvPath)
	if err := cmd.Run(); err != nil {
		diag := strings.TrimSpace(stderr.String())
		if diag != "" {
			return nil, fmt.Errorf("cannot enumerate encodings: %v: %s", err, diag)
		}
		return nil, fmt.Errorf("cannot enumerate encodings: %v", err)
	}
	r := NewRegistry(ParseList(stdout.String()))
	logflags.RegistryLogger().Debugf("registry built with %d encodings", r.Len())
	return r, nil
}
