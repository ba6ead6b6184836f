package prefabs

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DiskDir is checked before the embedded files so specs and scripts can be
// edited without rebuilding.
var DiskDir = "prefabs"

//go:embed *.yaml
var specFS embed.FS

//go:embed scripts/*.tengo
var scriptFS embed.FS

// Load returns a spec file such as "alien.yaml".
func Load(name string) ([]byte, error) {
	return read(specFS, specPath(name))
}

// LoadScript returns a tengo script. "alien.tengo", "scripts/alien.tengo"
// and "prefabs/scripts/alien.tengo" all name the same file.
func LoadScript(name string) ([]byte, error) {
	return read(scriptFS, scriptPath(name))
}

func read(fsys embed.FS, clean string) ([]byte, error) {
	if clean == "" {
		return nil, fmt.Errorf("prefabs: empty name: %w", fs.ErrNotExist)
	}
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return fsys.ReadFile(clean)
}

func specPath(name string) string {
	if name == "" {
		return ""
	}
	return strings.TrimPrefix(filepath.ToSlash(name), "prefabs/")
}

func scriptPath(name string) string {
	if name == "" {
		return ""
	}
	s := filepath.ToSlash(name)
	for _, prefix := range []string{"prefabs/", "scripts/"} {
		s = strings.TrimPrefix(s, prefix)
	}
	return path.Join("scripts", s)
}

func diskPath(clean string) string {
	return filepath.Join(DiskDir, filepath.FromSlash(clean))
}
