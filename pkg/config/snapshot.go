package config

import "fmt"

// SnapshotConfig locates the unified snapshot blob on disk.
type SnapshotConfig struct {
	Path string `koanf:"path"`
}

func (c *SnapshotConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("snapshot path is not configured")
	}
	return nil
}
