package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Расширения файлов анимации, которые умеет читать loader.
var documentExtensions = []string{".yaml", ".yml"}

// FindLatestDocument возвращает самый свежий файл анимации в папке.
func FindLatestDocument(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !isDocument(f.Name()) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено файлов анимации", dir)
	}

	return latestFile, nil
}

func isDocument(name string) bool {
	name = strings.ToLower(name)
	for _, ext := range documentExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// OutputPath строит имя результата рядом с входным файлом: расширение
// документа заменяется расширением формата. Если имя совпадает со входом
// (формат yaml), добавляется суффикс, чтобы не затереть исходник.
func OutputPath(input, ext string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	out := base + ext
	if out == input {
		out = base + ".frames" + ext
	}
	return out
}

// WriteFileAtomic пишет данные во временный файл в той же папке и
// переименовывает его. Частично записанный результат не появляется никогда.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("запись %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
