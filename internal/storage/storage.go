// Package storage — хранение загруженных файлов на диске.
// Каждая загрузка получает уникальный каталог; БД остаётся
// авторитетным источником, отсутствие файла при удалении не ошибка.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrTooLarge возвращается, когда размер файла превышает лимит.
var ErrTooLarge = fmt.Errorf("file too large")

// Storage — файловое хранилище с базовым каталогом и лимитом размера.
type Storage struct {
	baseDir string
	maxSize int64
}

// NewStorage создаёт хранилище. maxSize — лимит в байтах на один файл.
func NewStorage(baseDir string, maxSize int64) *Storage {
	return &Storage{baseDir: baseDir, maxSize: maxSize}
}

// CreateUploadDir создаёт уникальный каталог для одной загрузки.
// Если задан projectID, файлы группируются по проекту.
func (s *Storage) CreateUploadDir(projectID string) (string, error) {
	uploadID := uuid.NewString()

	var dir string
	if projectID != "" {
		dir = filepath.Join(s.baseDir, projectID, uploadID)
	} else {
		dir = filepath.Join(s.baseDir, uploadID)
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}
	return dir, nil
}

// Save записывает содержимое src в dir/filename и возвращает путь и размер.
// При любом сбое частично записанный файл удаляется до возврата ошибки.
func (s *Storage) Save(dir, filename string, src io.Reader) (string, int64, error) {
	path := filepath.Join(dir, filepath.Base(filename))

	dst, err := os.Create(path)
	if err != nil {
		return "", 0, err
	}

	// лимит + 1 байт, чтобы отличить «ровно лимит» от превышения
	size, err := io.Copy(dst, io.LimitReader(src, s.maxSize+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && size > s.maxSize {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		return "", 0, err
	}

	return path, size, nil
}

// Delete удаляет файл по записанному пути. Отсутствие файла — не ошибка.
func (s *Storage) Delete(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MaxSize — лимит размера одного файла в байтах.
func (s *Storage) MaxSize() int64 { return s.maxSize }

// contentTypes — типы для распространённых расширений.
var contentTypes = map[string]string{
	".pdf":     "application/pdf",
	".jpg":     "image/jpeg",
	".jpeg":    "image/jpeg",
	".png":     "image/png",
	".gif":     "image/gif",
	".csv":     "text/csv",
	".xlsx":    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".xls":     "application/vnd.ms-excel",
	".doc":     "application/msword",
	".docx":    "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":     "text/plain",
	".kml":     "application/vnd.google-earth.kml+xml",
	".geojson": "application/geo+json",
}

// ContentTypeFor определяет content type по расширению имени файла.
func ContentTypeFor(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
