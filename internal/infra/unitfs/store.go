package unitfs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aalvaropc/unitforge/internal/domain"
	"github.com/aalvaropc/unitforge/internal/ports"
	"github.com/aalvaropc/unitforge/internal/unitfile"
)

const defaultPerm fs.FileMode = 0o644

type Store struct {
	perm      fs.FileMode
	overwrite bool
	mkdir     bool
}

type Option func(*Store)

// WithPerm sets the mode of written unit files.
func WithPerm(perm fs.FileMode) Option {
	return func(s *Store) { s.perm = perm }
}

// WithOverwrite controls whether an existing unit file may be replaced.
func WithOverwrite(enabled bool) Option {
	return func(s *Store) { s.overwrite = enabled }
}

// WithMkdir creates the destination directory when it is missing.
func WithMkdir(enabled bool) Option {
	return func(s *Store) { s.mkdir = enabled }
}

func NewStore(opts ...Option) *Store {
	s := &Store{perm: defaultPerm, overwrite: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	_ ports.UnitSource = (*Store)(nil)
	_ ports.UnitSink   = (*Store)(nil)
	_ ports.UnitLister = (*Store)(nil)
)

// LoadUnit parses the file at path. Name and Type come from the file name.
func (s *Store) LoadUnit(path string) (*domain.Unit, error) {
	typ, name, err := SplitFileName(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "unitfs.load",
			Kind: domain.KindSourceUnreadable,
			Path: path,
			Err:  fmt.Errorf("%w: %w", domain.ErrSourceUnreadable, err),
		}
	}
	defer f.Close()

	u, err := unitfile.ParseReader(f)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "unitfs.load",
			Kind: domain.KindSourceUnreadable,
			Path: path,
			Err:  fmt.Errorf("%w: %w", domain.ErrSourceUnreadable, err),
		}
	}

	u.Name = name
	u.Type = typ
	return u, nil
}

// WriteUnit renders u into dir/<name>.<type>. The file is written to a
// temporary sibling first and renamed into place, so a failed write never
// leaves a truncated unit behind.
func (s *Store) WriteUnit(dir string, u *domain.Unit) (string, error) {
	if err := u.Validate(); err != nil {
		return "", err
	}

	path := filepath.Join(dir, u.FileName())

	if s.mkdir {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", unwritable("unitfs.mkdir", path, err)
		}
	}

	if !s.overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", unwritable("unitfs.write", path, os.ErrExist)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+u.FileName()+".*.tmp")
	if err != nil {
		return "", unwritable("unitfs.write", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(unitfile.RenderFile(u)); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", unwritable("unitfs.write", path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", unwritable("unitfs.sync", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", unwritable("unitfs.close", path, err)
	}
	if err := os.Chmod(tmpName, s.perm); err != nil {
		cleanup()
		return "", unwritable("unitfs.chmod", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return "", unwritable("unitfs.rename", path, err)
	}

	return path, nil
}

// ListUnits returns the service, timer and socket files found directly in dir.
func (s *Store) ListUnits(dir string) ([]domain.UnitRef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "unitfs.list",
			Kind: domain.KindNotFound,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.UnitRef
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		typ, name, err := SplitFileName(e.Name())
		if err != nil {
			continue
		}
		refs = append(refs, domain.UnitRef{
			Name: name,
			Type: typ,
			Path: filepath.Join(dir, e.Name()),
		})
	}

	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Name == refs[j].Name {
			return refs[i].Type < refs[j].Type
		}
		return refs[i].Name < refs[j].Name
	})
	return refs, nil
}

// SplitFileName derives the unit type and name from "name.type".
func SplitFileName(path string) (domain.UnitType, string, error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	typ, ok := domain.ParseUnitType(ext)
	if !ok || name == "" {
		return "", "", &domain.OpError{
			Op:   "unitfs.split_name",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  fmt.Errorf("unsupported unit file %q (want .service, .timer or .socket)", base),
		}
	}
	return typ, name, nil
}

func unwritable(op, path string, err error) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindDestinationUnwritable,
		Path: path,
		Err:  fmt.Errorf("%w: %w", domain.ErrDestinationUnwritable, err),
	}
}
