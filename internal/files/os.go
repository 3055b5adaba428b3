package files

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// OS implements FileSystem on the local disk.
type OS struct{}

// NewOS returns the local-disk FileSystem.
func NewOS() OS { return OS{} }

func (OS) Exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func (OS) IsDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

func (OS) Expand(patterns ...string) ([]string, error) {
	var matches orderedSet
	for _, pattern := range patterns {
		if exclude, ok := strings.CutPrefix(pattern, "!"); ok {
			if err := matches.removeMatching(exclude, doublestar.PathMatch); err != nil {
				return nil, err
			}
			continue
		}
		found, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}
		matches.add(found...)
	}
	return matches.items, nil
}

func (OS) ExpandMapping(patterns []string, destPrefix string, opts MappingOptions) ([]Mapping, error) {
	cwd := opts.Cwd
	if cwd == "" {
		cwd = "."
	}
	fsys := os.DirFS(cwd)

	var matches orderedSet
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if exclude, ok := strings.CutPrefix(pattern, "!"); ok {
			if err := matches.removeMatching(exclude, doublestar.Match); err != nil {
				return nil, err
			}
			continue
		}
		found, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %q in %s: %w", pattern, cwd, err)
		}
		matches.add(found...)
	}

	mappings := make([]Mapping, 0, len(matches.items))
	for _, rel := range matches.items {
		dest := rel
		if opts.Flatten {
			dest = path.Base(rel)
		}
		if opts.Ext != "" {
			dest = strings.TrimSuffix(dest, path.Ext(dest)) + opts.Ext
		}
		if destPrefix != "" {
			dest = path.Join(filepath.ToSlash(destPrefix), dest)
		}
		mappings = append(mappings, Mapping{
			Src:  filepath.Join(opts.Cwd, filepath.FromSlash(rel)),
			Dest: dest,
		})
	}
	return mappings, nil
}

func (OS) Copy(src, dest string, process ProcessFunc) error {
	// #nosec G304 -- src is an operator-configured template path.
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	contents := string(data)
	if process != nil {
		if contents, err = process(contents); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return fmt.Errorf("create directory for %s: %w", dest, err)
	}
	// #nosec G306 -- generated web assets must be world readable.
	if err := os.WriteFile(dest, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}

func (OS) ReadText(p string) (string, error) {
	// #nosec G304 -- callers pass configured paths.
	data, err := os.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", p, err)
	}
	return string(data), nil
}

func (o OS) ReadJSON(p string, v any) error {
	text, err := o.ReadText(p)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("parse %s: %w", p, err)
	}
	return nil
}

// IsNotExist reports whether err was caused by a missing file.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func (s *orderedSet) add(items ...string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	for _, it := range items {
		if _, ok := s.seen[it]; ok {
			continue
		}
		s.seen[it] = struct{}{}
		s.items = append(s.items, it)
	}
}

func (s *orderedSet) removeMatching(pattern string, match func(string, string) (bool, error)) error {
	kept := s.items[:0]
	for _, it := range s.items {
		ok, err := match(pattern, it)
		if err != nil {
			return fmt.Errorf("exclude %q: %w", pattern, err)
		}
		if ok {
			delete(s.seen, it)
			continue
		}
		kept = append(kept, it)
	}
	s.items = kept
	return nil
}
