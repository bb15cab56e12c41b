package loader

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"

	"github.com/rotisserie/eris"
)

// SourcesHash returns the hex MD5 digest of a source document, the value
// stored in the sources_hash field.
func SourcesHash(r io.Reader) (string, error) {
	h := md5.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", eris.Wrap(err, "loader: hash source")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashFile returns SourcesHash of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", eris.Wrapf(err, "loader: open source %s", path)
	}
	defer f.Close()

	return SourcesHash(f)
}
