package lists

import (
	"errors"
	"os"
	"strings"

	"github.com/blocklistproject/blocklist-builder/src/internal/hashing"
	"github.com/blocklistproject/blocklist-builder/src/internal/log"
	"github.com/blocklistproject/blocklist-builder/src/internal/utils"
)

func checksumPath(filePath string) string {
	return filePath + ".md5"
}

// IsFileChanged reports whether the checksum of the provider differs from the
// one recorded for filePath. A missing file or checksum counts as changed.
func IsFileChanged(checksumProxy hashing.ChecksumProvider, filePath string) (bool, error) {
	if _, err := os.Stat(filePath); errors.Is(err, os.ErrNotExist) {
		return true, nil
	}

	md5, err := checksumProxy.GetChecksum()
	if err != nil {
		return false, err
	}

	recorded, err := ReadChecksum(filePath)
	if err != nil {
		log.Debugf("Failed to read checksum of '%s', assuming it's changed: %v", filePath, err)
		return true, nil
	}
	return recorded != md5, nil
}

// ReadChecksum returns the checksum recorded for filePath.
func ReadChecksum(filePath string) (string, error) {
	content, err := os.ReadFile(checksumPath(filePath))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(content)), nil
}

// WriteChecksum records the checksum of the provider for filePath.
func WriteChecksum(checksumProxy hashing.ChecksumProvider, filePath string) error {
	checksum, err := checksumProxy.GetChecksum()
	if err != nil {
		return err
	}
	return utils.WriteFileAtomic(checksumPath(filePath), []byte(checksum+"\n"), 0644)
}
