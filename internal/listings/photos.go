package listings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// PhotoURLPrefix is where static images are served from.
const PhotoURLPrefix = "/static/images/"

// PhotoSubdir is the directory under the static root that holds listing images.
const PhotoSubdir = "images"

var (
	photoNamePattern = regexp.MustCompile(`^sample(\d+)\.(jpg|jpeg|png|webp)$`)
	misspeltSample   = regexp.MustCompile(`^sampl(?:e)?(\d+)`)
)

// NormalizePhotoName lower-cases the name, strips any directory, repairs the
// common "sampl<N>" misspelling and checks the result is sample<N>.<ext>.
func NormalizePhotoName(name string) (string, error) {
	clean := strings.ToLower(path.Base(strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))))
	clean = misspeltSample.ReplaceAllString(clean, "sample$1")
	if !photoNamePattern.MatchString(clean) {
		return "", fmt.Errorf("photo name %q must look like sample<N>.jpg", name)
	}
	return clean, nil
}

// MissingPhotoFiles reports which names have no file under staticDir/images.
func MissingPhotoFiles(staticDir string, names []string) ([]string, error) {
	var missing []string
	for _, name := range names {
		_, err := os.Stat(filepath.Join(staticDir, PhotoSubdir, name))
		switch {
		case err == nil:
		case errors.Is(err, fs.ErrNotExist):
			missing = append(missing, name)
		default:
			return nil, err
		}
	}
	return missing, nil
}
