package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io/fs"
	"net/http"
	"path"
	"strconv"

	_ "image/gif"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/JonMunkholm/brandadmin/internal/core"
)

// Thumbnail is a resized copy written next to each logo.
type Thumbnail struct {
	Name string
	Size int
}

// DefaultThumbnails are the brand image types.
var DefaultThumbnails = []Thumbnail{
	{Name: "small_default", Size: 98},
	{Name: "medium_default", Size: 125},
}

var logoFormats = map[string]bool{
	"image/gif":  true,
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

const logoQuality = 90

// LogoStore keeps brand logos as <dir>/<id>.jpg plus one <id>-<type>.jpg per
// thumbnail.
type LogoStore struct {
	fs          afero.Fs
	dir         string
	urlPrefix   string
	maxSize     int64
	memoryLimit int64
	thumbnails  []Thumbnail
}

// LogoConfig configures a LogoStore.
type LogoConfig struct {
	Dir         string
	URLPrefix   string
	MaxSize     int64
	MemoryLimit int64
}

// NewLogoStore returns a store on fsys.
func NewLogoStore(fsys afero.Fs, cfg LogoConfig) *LogoStore {
	prefix := cfg.URLPrefix
	if prefix == "" {
		prefix = "/" + cfg.Dir + "/"
	}
	return &LogoStore{
		fs:          fsys,
		dir:         cfg.Dir,
		urlPrefix:   prefix,
		maxSize:     cfg.MaxSize,
		memoryLimit: cfg.MemoryLimit,
		thumbnails:  DefaultThumbnails,
	}
}

func (l *LogoStore) file(id int, suffix string) string {
	name := strconv.Itoa(id)
	if suffix != "" {
		name += "-" + suffix
	}
	return path.Join(l.dir, name+".jpg")
}

// Info describes the stored logo of a brand, or returns nil when there is
// none.
func (l *LogoStore) Info(id int) *core.LogoImage {
	st, err := l.fs.Stat(l.file(id, ""))
	if err != nil || st.IsDir() {
		return nil
	}
	return &core.LogoImage{
		Path: l.urlPrefix + strconv.Itoa(id) + ".jpg",
		Size: st.Size(),
	}
}

// Save validates data and writes it, re-encoded as JPEG, with its
// thumbnails.
func (l *LogoStore) Save(id int, data []byte) error {
	if l.maxSize > 0 && int64(len(data)) > l.maxSize {
		return core.NewError(core.KindUploadedImageConstraint, core.CodeExceededSize,
			"image is %d bytes, max %d", len(data), l.maxSize)
	}

	mt := mimetype.Detect(data)
	if !logoFormats[mt.String()] {
		return core.NewError(core.KindUploadedImageConstraint, core.CodeUnrecognizedFormat,
			"unsupported image type %s", mt.String())
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return core.NewError(core.KindUploadedImageConstraint, core.CodeUnrecognizedFormat,
			"read image header: %v", err)
	}
	if l.memoryLimit > 0 && int64(cfg.Width)*int64(cfg.Height)*4 > l.memoryLimit {
		return core.NewError(core.KindMemoryLimit, 0,
			"%dx%d image exceeds the memory limit", cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return core.WrapError(core.KindImageOptimization, 0, fmt.Errorf("decode image: %w", err))
	}

	if err := l.fs.MkdirAll(l.dir, 0o755); err != nil {
		return core.WrapError(core.KindImageUpload, 0, err)
	}
	if err := l.write(l.file(id, ""), flatten(src, src.Bounds().Dx(), src.Bounds().Dy())); err != nil {
		return err
	}
	for _, t := range l.thumbnails {
		w, h := fit(src.Bounds().Dx(), src.Bounds().Dy(), t.Size)
		if err := l.write(l.file(id, t.Name), flatten(src, w, h)); err != nil {
			return err
		}
	}
	return nil
}

func (l *LogoStore) write(name string, img image.Image) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: logoQuality}); err != nil {
		return core.WrapError(core.KindImageOptimization, 0, fmt.Errorf("encode %s: %w", name, err))
	}
	if err := afero.WriteFile(l.fs, name, buf.Bytes(), 0o644); err != nil {
		return core.WrapError(core.KindImageUpload, 0, fmt.Errorf("write %s: %w", name, err))
	}
	return nil
}

// Delete removes a brand's logo and thumbnails. Missing files are not an
// error.
func (l *LogoStore) Delete(id int) error {
	names := []string{l.file(id, "")}
	matches, err := afero.Glob(l.fs, path.Join(l.dir, strconv.Itoa(id)+"-*.jpg"))
	if err != nil {
		return core.WrapError(core.KindCannotDeleteImage, 0, err)
	}
	names = append(names, matches...)

	var errs []error
	for _, name := range names {
		if err := l.fs.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return core.WrapError(core.KindCannotDeleteImage, 0, errors.Join(errs...))
	}
	return nil
}

// Handler serves the stored files.
func (l *LogoStore) Handler() http.Handler {
	return http.FileServer(afero.NewHttpFs(l.fs).Dir(l.dir))
}

// fit scales w x h down to fit a size x size box, keeping the aspect ratio.
func fit(w, h, size int) (int, int) {
	if w <= size && h <= size {
		return w, h
	}
	if w >= h {
		return size, max(1, h*size/w)
	}
	return max(1, w*size/h), size
}

// flatten resizes src to w x h on a white background; JPEG has no alpha.
func flatten(src image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
