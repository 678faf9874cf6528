package sqlite

import (
	"fmt"
	"path/filepath"
	"sync"
)

const memoryPath = ":memory:"

var (
	claimsMu sync.Mutex
	claims   = make(map[string]struct{})
)

// claimPath records that a store owns path for the life of this process.
// In-memory databases are private to their handle and are never claimed.
func claimPath(path string) (string, error) {
	if path == memoryPath {
		return "", nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	claimsMu.Lock()
	defer claimsMu.Unlock()
	if _, taken := claims[abs]; taken {
		return "", fmt.Errorf("store already open at %s", abs)
	}
	claims[abs] = struct{}{}
	return abs, nil
}

func releasePath(abs string) {
	if abs == "" {
		return
	}
	claimsMu.Lock()
	delete(claims, abs)
	claimsMu.Unlock()
}
