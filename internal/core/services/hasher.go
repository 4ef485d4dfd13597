package services

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"

	"github.com/lcod-team/lcod-registry/internal/core/domain"
	"github.com/lcod-team/lcod-registry/internal/logger"
)

// DigestFile returns the lowercase hex sha256 of data.
func DigestFile(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ChecksumSRI returns "sha256-<base64>" of data, the checksum format pinned
// in catalogue entries.
func ChecksumSRI(data []byte) string {
	sum := sha256.Sum256(data)
	return "sha256-" + base64.StdEncoding.EncodeToString(sum[:])
}

// DigestTree hashes every regular file below root in fsys.
//
// Paths in the result are slash-separated and relative to root, and the
// result is sorted by path so identical trees produce identical entries on
// every platform. Any unreadable file or directory aborts the walk; no
// partial result is returned.
func DigestTree(fsys fs.FS, root string) ([]domain.FileEntry, error) {
	var files []domain.FileEntry
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		entry, err := digestFS(fsys, p)
		if err != nil {
			return err
		}
		entry.Path = relativeTo(root, p)
		files = append(files, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("hashing %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	logger.Debug("hashed %d files under %s", len(files), root)
	return files, nil
}

func digestFS(fsys fs.FS, name string) (domain.FileEntry, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return domain.FileEntry{}, err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return domain.FileEntry{}, err
	}
	return domain.FileEntry{SHA256: hex.EncodeToString(h.Sum(nil)), Size: n}, nil
}

func relativeTo(root, p string) string {
	if root == "." {
		return p
	}
	return strings.TrimPrefix(p, root+"/")
}
