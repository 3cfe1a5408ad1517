package version

import (
	"encoding/json"
	"os"
	"path/filepath"
)

type Info struct {
	Version string `json:"version"`
}

// Load reads version.json next to the executable. The host launches the
// plugin with its own working directory, so a relative path is not reliable.
func Load() Info {
	exe, err := os.Executable()
	if err != nil {
		return Info{Version: "0.0.0"}
	}
	data, err := os.ReadFile(filepath.Join(filepath.Dir(exe), "version.json"))
	if err != nil {
		return Info{Version: "0.0.0"}
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return Info{Version: "0.0.0"}
	}
	return info
}
