package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	consts "github.com/khanhnv2901/siteverify/internal/shared/constants"
)

// writeChecksum hashes path and writes a "<hex>  <basename>" companion file
// next to it, compatible with sha256sum -c.
func writeChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	sum := hex.EncodeToString(h.Sum(nil))

	content := fmt.Sprintf("%s  %s\n", sum, filepath.Base(path))
	if err := os.WriteFile(path+".sha256", []byte(content), consts.DefaultFilePerm); err != nil {
		return "", fmt.Errorf("write checksum: %w", err)
	}
	return sum, nil
}
