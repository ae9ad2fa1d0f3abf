package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// PublicUploadPrefix is the URL prefix under which processed images are served.
const PublicUploadPrefix = "/uploads/"

// EnsureUploadDir creates the upload directory if it does not exist yet.
func EnsureUploadDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// PublicPath builds the public URL for a stored file name.
func PublicPath(name string) string {
	return PublicUploadPrefix + name
}

// DiskPath maps a public /uploads/... path back onto the upload directory.
// Only the base name is honoured, so a crafted path cannot escape the
// directory. Returns "" for paths outside the upload prefix.
func DiskPath(uploadDir, publicPath string) string {
	if !strings.HasPrefix(publicPath, PublicUploadPrefix) {
		return ""
	}
	name := filepath.Base(strings.TrimPrefix(publicPath, PublicUploadPrefix))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return filepath.Join(uploadDir, name)
}

// RemovePublicFiles deletes the files behind the given public paths from the
// upload directory. Missing files are tolerated; other failures are logged
// and swallowed so a dangling file never blocks a user facing deletion.
func RemovePublicFiles(uploadDir string, publicPaths []string) {
	for _, p := range publicPaths {
		disk := DiskPath(uploadDir, p)
		if disk == "" {
			continue
		}
		if err := os.Remove(disk); err != nil && !os.IsNotExist(err) {
			if Sugar != nil {
				Sugar.Warnf("failed to remove stored file %s: %v", disk, err)
			}
		}
	}
}
