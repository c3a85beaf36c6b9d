package storage

import (
	"io"
	"os"
	"path/filepath"
)

// LocalStorage はローカルディスクにファイルを保存する
type LocalStorage struct {
	baseDir string
}

// DI
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{baseDir: baseDir}
}

// Save はbaseDir配下の相対パスに書き込む。途中のディレクトリは作る。
func (s *LocalStorage) Save(relPath string, r io.Reader) error {
	fullPath := filepath.Join(s.baseDir, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return err
	}
	return nil
}
