package media

import (
	"github.com/google/uuid"
)

type Kind int

const (
	// KindRemote images already live in object storage.
	KindRemote Kind = iota
	// KindLocal images are held in memory until the next commit.
	KindLocal
)

func (k Kind) String() string {
	if k == KindLocal {
		return "local"
	}
	return "remote"
}

// File is an uploaded file kept in memory until it is committed.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f File) Size() int64 { return int64(len(f.Data)) }

// Image is a tagged union: remote images carry URL, local ones carry File
// and a Preview handle.
type Image struct {
	ID      string
	Kind    Kind
	URL     string
	File    *File
	Preview string
}

func newID() string { return uuid.NewString() }

func RemoteImage(url string) Image {
	return Image{ID: newID(), Kind: KindRemote, URL: url}
}

func (img Image) IsLocal() bool { return img.Kind == KindLocal }

// Src is what a form would display: the durable URL or the preview handle.
func (img Image) Src() string {
	if img.Kind == KindLocal {
		return img.Preview
	}
	return img.URL
}
