package site

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/madeup/internal/config"
	derrors "git.home.luguber.info/inful/madeup/internal/errors"
	"git.home.luguber.info/inful/madeup/internal/logfields"
	"git.home.luguber.info/inful/madeup/internal/theme"
)

const (
	dirMode  = 0o750
	fileMode = 0o644
)

// WriteFiles writes the generated pages to the output directory, copies the
// configured stylesheets and the images directory when copy_resources is
// set, and always writes the bundled theme.
func (g *Generator) WriteFiles(ctx context.Context, s *Site) error {
	outDir := g.cfg.OutPath()
	if err := os.MkdirAll(outDir, dirMode); err != nil {
		return derrors.FileSystemError("mkdir", outDir, err)
	}

	for _, f := range s.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeFile(filepath.Join(outDir, filepath.FromSlash(f.Path)), []byte(f.Content)); err != nil {
			return err
		}
	}

	if g.cfg.CopyResources {
		if err := g.copyResources(outDir); err != nil {
			return err
		}
	}

	written, err := theme.Write(outDir)
	if err != nil {
		return derrors.FileSystemError("write theme", outDir, err)
	}
	g.logger.Debug("Wrote theme files", logfields.Count(len(written)))
	return nil
}

func (g *Generator) copyResources(outDir string) error {
	for _, sheet := range g.cfg.Stylesheet {
		src := g.cfg.Resolve(sheet)
		dst := filepath.Join(outDir, filepath.Clean(sheet))
		if filepath.IsAbs(sheet) {
			dst = filepath.Join(outDir, filepath.Base(sheet))
		}
		if err := copyFile(src, dst); err != nil {
			return err
		}
	}

	images := g.cfg.ImagesPath()
	info, err := os.Stat(images)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		g.logger.Debug("No images directory to copy", logfields.Path(images))
		return nil
	case err != nil:
		return derrors.FileSystemError("stat", images, err)
	case !info.IsDir():
		return derrors.FileSystemError("copy", images, errors.New("not a directory"))
	}
	return copyDir(images, filepath.Join(outDir, config.DefaultImagesDir))
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return derrors.FileSystemError("mkdir", filepath.Dir(path), err)
	}
	// #nosec G306 -- generated site files are meant to be world readable
	if err := os.WriteFile(path, data, fileMode); err != nil {
		return derrors.FileSystemError("write", path, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	// #nosec G304 -- src comes from the site configuration
	in, err := os.Open(src)
	if err != nil {
		return derrors.FileSystemError("open", src, err)
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), dirMode); err != nil {
		return derrors.FileSystemError("mkdir", filepath.Dir(dst), err)
	}
	// #nosec G302 G304 -- dst is inside the output directory
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fileMode)
	if err != nil {
		return derrors.FileSystemError("create", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return derrors.FileSystemError("copy", dst, err)
	}
	if err := out.Close(); err != nil {
		return derrors.FileSystemError("close", dst, err)
	}
	return nil
}

// copyDir copies the regular files below src into dst, keeping the layout.
func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return derrors.FileSystemError("walk", p, err)
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			if err := os.MkdirAll(target, dirMode); err != nil {
				return derrors.FileSystemError("mkdir", target, err)
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(p, target)
	})
}
