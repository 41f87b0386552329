package employee

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// fileDocument is the on-disk layout: {"employees": [...]}.
type fileDocument struct {
	Employees []Employee `json:"employees"`
}

type fileRepository struct {
	// mu only guards this process; another process writing the same file
	// can still overwrite our changes.
	mu     sync.Mutex
	path   string
	nextID func() string
}

// NewFileRepository stores the roster in one JSON file that is read and fully
// rewritten on every mutation. A missing file is an empty roster.
func NewFileRepository(path string) Repository {
	return &fileRepository{path: path, nextID: TimestampID}
}

func (r *fileRepository) read() (fileDocument, error) {
	var doc fileDocument

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return fileDocument{Employees: []Employee{}}, nil
	}
	if err != nil {
		return doc, fmt.Errorf("read %s: %w", r.path, err)
	}
	if len(data) == 0 {
		return fileDocument{Employees: []Employee{}}, nil
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("decode %s: %w", r.path, err)
	}
	if doc.Employees == nil {
		doc.Employees = []Employee{}
	}
	return doc, nil
}

// write replaces the file through a temp file and rename, so a crash never
// leaves a half-written roster.
func (r *fileRepository) write(doc fileDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode roster: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace %s: %w", r.path, err)
	}
	return nil
}

func indexIn(empls []Employee, id string) int {
	for i := range empls {
		if empls[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *fileRepository) FindAll(ctx context.Context) ([]Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return nil, err
	}
	return doc.Employees, nil
}

func (r *fileRepository) FindByID(ctx context.Context, id string) (*Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return nil, err
	}
	i := indexIn(doc.Employees, id)
	if i < 0 {
		return nil, ErrRecordNotFound
	}
	return &doc.Employees[i], nil
}

func (r *fileRepository) Create(ctx context.Context, empl *Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return err
	}
	if empl.ID == "" {
		empl.ID = uniqueID(r.nextID(), func(id string) bool { return indexIn(doc.Employees, id) >= 0 })
	}
	doc.Employees = append(doc.Employees, *empl)
	return r.write(doc)
}

func (r *fileRepository) Update(ctx context.Context, id string, patch Patch) (*Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return nil, err
	}
	i := indexIn(doc.Employees, id)
	if i < 0 {
		return nil, ErrRecordNotFound
	}
	patch.apply(&doc.Employees[i])
	updated := doc.Employees[i]
	if err := r.write(doc); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *fileRepository) Delete(ctx context.Context, id string) (*Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return nil, err
	}
	i := indexIn(doc.Employees, id)
	if i < 0 {
		return nil, ErrRecordNotFound
	}
	removed := doc.Employees[i]
	doc.Employees = append(doc.Employees[:i], doc.Employees[i+1:]...)
	if err := r.write(doc); err != nil {
		return nil, err
	}
	return &removed, nil
}
