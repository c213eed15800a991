package media

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

var ErrIndexOutOfRange = errors.New("gallery index out of range")

// Uploader stores one local file and returns its durable URL.
type Uploader interface {
	Upload(ctx context.Context, f File) (string, error)
}

// Remover deletes stored files by URL.
type Remover interface {
	Remove(ctx context.Context, urls []string) error
}

// Draft is the working set of a project's cover and gallery.
//
// Removing or replacing a remote image only stages its URL in
// RemovedRemoteURLs; the file is deleted by FinalizeRemovals once the
// owning row has been written.
type Draft struct {
	Cover             *Image
	Gallery           []Image
	RemovedRemoteURLs []string

	previews *Previews
}

func EmptyDraft() *Draft {
	return &Draft{Gallery: []Image{}, previews: NewPreviews()}
}

// NewDraft starts from the URLs persisted on a row. Blank URLs are dropped.
func NewDraft(coverURL string, galleryURLs []string) *Draft {
	d := EmptyDraft()
	if u := strings.TrimSpace(coverURL); u != "" {
		img := RemoteImage(u)
		d.Cover = &img
	}
	for _, raw := range galleryURLs {
		if u := strings.TrimSpace(raw); u != "" {
			d.Gallery = append(d.Gallery, RemoteImage(u))
		}
	}
	return d
}

func (d *Draft) Previews() *Previews { return d.previews }

func (d *Draft) newLocal(f File) Image {
	file := f
	img := Image{ID: newID(), Kind: KindLocal, File: &file}
	img.Preview = d.previews.create(img.File)
	return img
}

// drop stages a remote image for deletion or releases a local one.
func (d *Draft) drop(img Image) {
	if img.Kind == KindRemote {
		d.stageRemoval(img.URL)
		return
	}
	d.previews.revoke(img.Preview)
}

func (d *Draft) stageRemoval(url string) {
	if url == "" {
		return
	}
	for _, existing := range d.RemovedRemoteURLs {
		if existing == url {
			return
		}
	}
	d.RemovedRemoteURLs = append(d.RemovedRemoteURLs, url)
}

// AddLocalCover replaces the current cover.
func (d *Draft) AddLocalCover(f File) {
	if d.Cover != nil {
		d.drop(*d.Cover)
	}
	img := d.newLocal(f)
	d.Cover = &img
}

// AddLocalGalleryImages appends; existing entries are never replaced.
func (d *Draft) AddLocalGalleryImages(files ...File) {
	for _, f := range files {
		d.Gallery = append(d.Gallery, d.newLocal(f))
	}
}

func (d *Draft) RemoveCover() {
	if d.Cover == nil {
		return
	}
	d.drop(*d.Cover)
	d.Cover = nil
}

func (d *Draft) RemoveGalleryImage(index int) error {
	if index < 0 || index >= len(d.Gallery) {
		return ErrIndexOutOfRange
	}
	d.drop(d.Gallery[index])
	d.Gallery = append(d.Gallery[:index:index], d.Gallery[index+1:]...)
	return nil
}

// RemoveGalleryURL removes the first gallery entry pointing at url.
func (d *Draft) RemoveGalleryURL(url string) bool {
	for i, img := range d.Gallery {
		if img.Kind == KindRemote && img.URL == url {
			_ = d.RemoveGalleryImage(i)
			return true
		}
	}
	return false
}

func (d *Draft) HasLocalImages() bool {
	if d.Cover != nil && d.Cover.IsLocal() {
		return true
	}
	for _, img := range d.Gallery {
		if img.IsLocal() {
			return true
		}
	}
	return false
}

func (d *Draft) HasCover() bool { return d.Cover != nil }

// CoverURL is empty while the cover is missing or still local.
func (d *Draft) CoverURL() string {
	if d.Cover == nil || d.Cover.IsLocal() {
		return ""
	}
	return d.Cover.URL
}

// GalleryURLs lists the remote gallery entries in order.
func (d *Draft) GalleryURLs() []string {
	out := make([]string, 0, len(d.Gallery))
	for _, img := range d.Gallery {
		if img.Kind == KindRemote {
			out = append(out, img.URL)
		}
	}
	return out
}

// Release revokes every open preview. Call it when the draft is discarded.
func (d *Draft) Release() {
	if d.Cover != nil && d.Cover.IsLocal() {
		d.previews.revoke(d.Cover.Preview)
	}
	for _, img := range d.Gallery {
		if img.IsLocal() {
			d.previews.revoke(img.Preview)
		}
	}
}

// CommitResult describes one successful commit.
type CommitResult struct {
	CoverURL    string
	GalleryURLs []string
	// Uploaded lists only the URLs created by this commit.
	Uploaded []string

	prevCover   *Image
	prevGallery []Image
}

// Commit uploads every local image, cover first and then the gallery
// concurrently. If any upload fails, the files uploaded so far are removed
// and the upload error is returned with the draft left untouched.
func (d *Draft) Commit(ctx context.Context, up Uploader, rm Remover) (*CommitResult, error) {
	var (
		mu       sync.Mutex
		uploaded []string
	)
	record := func(url string) {
		mu.Lock()
		uploaded = append(uploaded, url)
		mu.Unlock()
	}
	rollback := func(err error) (*CommitResult, error) {
		if len(uploaded) > 0 && rm != nil {
			_ = rm.Remove(context.WithoutCancel(ctx), uploaded)
		}
		return nil, err
	}

	coverURL := ""
	if d.Cover != nil {
		if d.Cover.IsLocal() {
			url, err := up.Upload(ctx, *d.Cover.File)
			if err != nil {
				return rollback(err)
			}
			record(url)
			coverURL = url
		} else {
			coverURL = d.Cover.URL
		}
	}

	gallery := make([]string, len(d.Gallery))
	g, gctx := errgroup.WithContext(ctx)
	for i, img := range d.Gallery {
		if !img.IsLocal() {
			gallery[i] = img.URL
			continue
		}
		i, file := i, *img.File
		g.Go(func() error {
			url, err := up.Upload(gctx, file)
			if err != nil {
				return err
			}
			record(url)
			gallery[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return rollback(err)
	}

	res := &CommitResult{
		CoverURL:    coverURL,
		GalleryURLs: gallery,
		Uploaded:    uploaded,
		prevCover:   d.Cover,
		prevGallery: d.Gallery,
	}

	if d.Cover != nil {
		cover := Image{ID: d.Cover.ID, Kind: KindRemote, URL: coverURL}
		d.Cover = &cover
	}
	next := make([]Image, len(d.Gallery))
	for i, img := range d.Gallery {
		next[i] = Image{ID: img.ID, Kind: KindRemote, URL: gallery[i]}
	}
	d.Gallery = next
	return res, nil
}

// Rollback deletes the files of a commit whose owning write failed and puts
// the local images back in place.
func (d *Draft) Rollback(ctx context.Context, rm Remover, res *CommitResult) error {
	if res == nil {
		return nil
	}
	d.Cover = res.prevCover
	d.Gallery = res.prevGallery
	if len(res.Uploaded) == 0 || rm == nil {
		return nil
	}
	return rm.Remove(ctx, res.Uploaded)
}

// Settle releases the previews of the local images a commit replaced.
func (d *Draft) Settle(res *CommitResult) {
	if res == nil {
		return
	}
	if res.prevCover != nil && res.prevCover.IsLocal() {
		d.previews.revoke(res.prevCover.Preview)
	}
	for _, img := range res.prevGallery {
		if img.IsLocal() {
			d.previews.revoke(img.Preview)
		}
	}
	res.prevCover, res.prevGallery = nil, nil
}

// FinalizeRemovals deletes the staged remote files. Only call it after the
// owning row was written.
func (d *Draft) FinalizeRemovals(ctx context.Context, rm Remover) error {
	if len(d.RemovedRemoteURLs) == 0 {
		return nil
	}
	if err := rm.Remove(ctx, d.RemovedRemoteURLs); err != nil {
		return err
	}
	d.RemovedRemoteURLs = nil
	return nil
}
