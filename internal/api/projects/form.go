package projects

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"makani-studio/internal/domain/i18n"
	"makani-studio/internal/domain/media"
	"makani-studio/internal/domain/projects"

	"github.com/gin-gonic/gin"
)

// MaxImageBytes caps one uploaded image.
const MaxImageBytes = 15 << 20

var errImageTooLarge = errors.New("image_too_large")

// applyFields copies the posted text fields onto d. Absent fields keep their
// current value so a partial form can be posted on edit.
func applyFields(c *gin.Context, d *projects.Draft, labels *i18n.Store) {
	set := func(name string, dst *string) {
		if v, ok := c.GetPostForm(name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	set("category", &d.Category)
	set("year", &d.Year)
	set("area", &d.Area)
	set("title", &d.Title)
	set("location", &d.Location)
	set("description", &d.Description)
	set("concept", &d.Concept)

	if v, ok := c.GetPostForm("status"); ok {
		d.Status = string(projects.NormalizeStatus(v, labels))
	}
	if v, ok := c.GetPostForm("published"); ok {
		d.Published, _ = strconv.ParseBool(v)
	}
}

// formVersion reads the version the edit form was loaded with.
func formVersion(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(c.PostForm("version")))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// applyMedia stages removals first and then the new files, so a posted cover
// replaces the current one.
func applyMedia(c *gin.Context, m *media.Draft) error {
	if v, _ := strconv.ParseBool(c.PostForm("remove_cover")); v {
		m.RemoveCover()
	}
	for _, url := range c.PostFormArray("remove_images") {
		m.RemoveGalleryURL(strings.TrimSpace(url))
	}

	form, err := c.MultipartForm()
	if err != nil {
		// url-encoded bodies carry no files
		return nil
	}
	if headers := form.File["cover"]; len(headers) > 0 {
		f, err := readFile(headers[0])
		if err != nil {
			return err
		}
		m.AddLocalCover(f)
	}
	gallery := make([]media.File, 0, len(form.File["gallery"]))
	for _, fh := range form.File["gallery"] {
		f, err := readFile(fh)
		if err != nil {
			return err
		}
		gallery = append(gallery, f)
	}
	m.AddLocalGalleryImages(gallery...)
	return nil
}

func readFile(fh *multipart.FileHeader) (media.File, error) {
	if fh.Size > MaxImageBytes {
		return media.File{}, fmt.Errorf("%s: %w", fh.Filename, errImageTooLarge)
	}
	src, err := fh.Open()
	if err != nil {
		return media.File{}, err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxImageBytes+1))
	if err != nil {
		return media.File{}, err
	}
	if len(data) > MaxImageBytes {
		return media.File{}, fmt.Errorf("%s: %w", fh.Filename, errImageTooLarge)
	}
	return media.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
