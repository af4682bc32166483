// Package mounts selects between an embedded filesystem and a directory
// on disk, presenting either as an fs.FS mounted at the same level. The
// web server uses it to serve templates and static files from the binary
// by default, or from disk in development mode; the scaffold command uses
// Materialize to write the embedded files out for customisation.
package mounts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileMount is a named fs.FS backed by either an embedded filesystem or
// a directory on disk.
type FileMount struct {
	MountName string
	fs.FS
}

// String lists the mount's files and directories, indented by level.
func (fm FileMount) String() string {
	o := fmt.Sprintf("fileMount %q:\n", fm.MountName)
	s, _ := Tree(fm.FS)
	return o + s
}

// ErrInvalidPath reports an invalid mount name.
type ErrInvalidPath struct {
	mountName string
}

func (e ErrInvalidPath) Error() string {
	return fmt.Sprintf(
		"mount name %q is not a valid fs.ValidPath path, see https://pkg.go.dev/io/fs#ValidPath",
		e.mountName)
}

// NewFileMount mounts dirPath if provided, otherwise the embedded fs
// sub-mounted at mountName. The sub-mount makes an embedded fs declared
// as
//
//	//go:embed templates
//	var templatesFS embed.FS
//
// behave like an os.DirFS rooted inside "templates/" rather than one
// level above it, so the two backings are interchangeable.
func NewFileMount(mountName string, embeddedFS fs.FS, dirPath string) (*FileMount, error) {

	if mountName == "" {
		return nil, errors.New("no mount name provided for new file mount")
	}
	if !fs.ValidPath(mountName) {
		return nil, ErrInvalidPath{mountName}
	}

	if dirPath == "" {
		subFS, err := fs.Sub(embeddedFS, mountName)
		if err != nil {
			return nil, fmt.Errorf("could not sub-mount embedded fs at %q: %v", mountName, err)
		}
		return &FileMount{mountName, subFS}, nil
	}

	s, err := os.Stat(dirPath)
	if err != nil {
		return nil, fmt.Errorf("new mount at %q error: %s", dirPath, err)
	}
	if !s.IsDir() {
		return nil, fmt.Errorf("new mount at %q is not a directory", dirPath)
	}
	return &FileMount{mountName, os.DirFS(dirPath)}, nil
}

// Materialize writes the mount's contents recursively to the filesystem
// at root/MountName. Root must be an existing directory and the
// destination must not already exist, so an existing scaffold is never
// overwritten.
func (fm *FileMount) Materialize(root string) error {

	s, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("materialize root %q invalid: %v", root, err)
	}
	if !s.IsDir() {
		return fmt.Errorf("materialize root %q is not a directory", root)
	}

	// MountName may be a composite path, hence MkdirAll.
	mountRoot := filepath.Join(root, fm.MountName)
	if _, err := os.Stat(mountRoot); !os.IsNotExist(err) {
		return fmt.Errorf("materialization path %q already exists", mountRoot)
	}
	if err := os.MkdirAll(mountRoot, 0755); err != nil {
		return fmt.Errorf("could not create mount root %q: %v", mountRoot, err)
	}

	return fs.WalkDir(fm.FS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		fullPath := filepath.Join(mountRoot, path)
		if d.IsDir() {
			if err := os.MkdirAll(fullPath, 0755); err != nil {
				return fmt.Errorf("could not make dir %q, %v", fullPath, err)
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		data, err := fs.ReadFile(fm.FS, path)
		if err != nil {
			return fmt.Errorf("could not read %q from mount %s: %v", path, fm.MountName, err)
		}
		if err := os.WriteFile(fullPath, data, 0644); err != nil {
			return fmt.Errorf("could not write %q at %q from mount %s: %v", path, fullPath, fm.MountName, err)
		}
		return nil
	})
}

// Tree renders an fs.FS as indented structured print output.
func Tree(thisFS fs.FS) (string, error) {
	var b strings.Builder
	var topSeen bool
	tpl := "%s[%s] %s%s (%s)\n"

	err := fs.WalkDir(thisFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !topSeen { // verbatim root as "[d] ./ (./)"
			fmt.Fprintf(&b, tpl, "\n", "d", ".", "/", ".")
			topSeen = true
			return nil
		}
		indent := strings.Repeat("  ", strings.Count(path, "/"))
		typer, slash := "f", " "
		if d.IsDir() {
			typer, slash = "d", "/"
		}
		fmt.Fprintf(&b, tpl, indent, typer, d.Name(), slash, path)
		return nil
	})
	return b.String(), err
}
