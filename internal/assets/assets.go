// Package assets serves the embedded frontend, minified once at startup.
package assets

import (
	"bytes"
	"io/fs"
	"log"
	"mime"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/json"
	"github.com/tdewolff/minify/v2/svg"
)

type file struct {
	data        []byte
	contentType string
}

// Assets is an in-memory http.Handler over a frontend file system.
type Assets struct {
	files   map[string]file
	modTime time.Time
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.Add("text/html", &html.Minifier{KeepDocumentTags: true, KeepEndTags: true})
	m.AddFunc("image/svg+xml", svg.Minify)
	m.AddFuncRegexp(regexp.MustCompile(`^(application|text)/(x-)?(java|ecma)script$`), js.Minify)
	m.AddFuncRegexp(regexp.MustCompile(`[/+]json$`), json.Minify)
	return m
}

// New reads every file of fsys and minifies the ones with a known type. A
// file that fails to minify is served as is.
func New(fsys fs.FS) (*Assets, error) {
	a := &Assets{
		files:   make(map[string]file),
		modTime: time.Now(),
	}
	m := newMinifier()

	var before, after int
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return errors.Wrapf(err, "reading %s", name)
		}

		contentType := mime.TypeByExtension(path.Ext(name))
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}
		mediatype, _, _ := strings.Cut(contentType, ";")

		before += len(data)
		if out, err := m.Bytes(mediatype, data); err == nil {
			data = out
		} else if !errors.Is(err, minify.ErrNotExist) {
			log.Printf("Serving %s unminified: %v", name, err)
		}
		after += len(data)

		a.files[name] = file{data: data, contentType: contentType}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Loaded %d frontend files (%d -> %d bytes)", len(a.files), before, after)
	return a, nil
}

// Len returns the number of files.
func (a *Assets) Len() int {
	return len(a.files)
}

// Bytes returns the served content of name.
func (a *Assets) Bytes(name string) ([]byte, bool) {
	f, ok := a.files[name]
	return f.data, ok
}

func (a *Assets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = "index.html"
	}
	f, ok := a.files[name]
	if !ok {
		f, ok = a.files[path.Join(name, "index.html")]
	}
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", f.contentType)
	http.ServeContent(w, r, name, a.modTime, bytes.NewReader(f.data))
}
