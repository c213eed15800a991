package projects

import (
	"errors"
	"net/http"

	"makani-studio/internal/app/http/middleware"
	"makani-studio/internal/domain/i18n"
	"makani-studio/internal/domain/media"
	"makani-studio/internal/domain/projects"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler is the admin project editor.
type Handler struct {
	store    *projects.Store
	workflow *projects.Workflow
	remover  media.Remover
	labels   *i18n.Store
	log      *zap.Logger
}

func NewHandler(store *projects.Store, wf *projects.Workflow, remover media.Remover, labels *i18n.Store, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{store: store, workflow: wf, remover: remover, labels: labels, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/projects")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.remove)
}

type progressStep struct {
	Percent int    `json:"percent"`
	Message string `json:"message"`
}

var nextNames = map[projects.Next]string{
	projects.ResetDraft: "reset",
	projects.Stay:       "stay",
	projects.BackToList: "list",
}

// ------------------------------
// GET /admin/projects
// ------------------------------
func (h *Handler) list(c *gin.Context) {
	list, err := h.store.ListAll(c.Request.Context())
	if err != nil {
		h.log.Error("list projects", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load projects", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": list})
}

// ------------------------------
// GET /admin/projects/:id
// ------------------------------
func (h *Handler) get(c *gin.Context) {
	p, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "Failed to load project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

// ------------------------------
// POST /admin/projects (multipart)
// ------------------------------
func (h *Handler) create(c *gin.Context) {
	lc := middleware.LanguageFrom(c)
	d := projects.BlankDraft(formLanguage(c, lc))
	applyFields(c, &d, h.labels)
	d.ID, d.Version = "", 0

	m := media.EmptyDraft()
	if err := applyMedia(c, m); err != nil {
		m.Release()
		h.badUpload(c, err)
		return
	}
	h.save(c, lc, d, m, http.StatusCreated)
}

// ------------------------------
// PUT /admin/projects/:id (multipart)
// "version" must be the value the form was loaded with.
// ------------------------------
func (h *Handler) update(c *gin.Context) {
	lc := middleware.LanguageFrom(c)
	version, ok := formVersion(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_version"})
		return
	}
	current, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "Failed to load project", err)
		return
	}

	d := projects.DraftFromProject(*current, formLanguage(c, lc))
	applyFields(c, &d, h.labels)
	d.ID = current.ID
	d.Version = version

	m := media.NewDraft(current.CoverImage, current.Images)
	if err := applyMedia(c, m); err != nil {
		m.Release()
		h.badUpload(c, err)
		return
	}
	h.save(c, lc, d, m, http.StatusOK)
}

func (h *Handler) save(c *gin.Context, lc i18n.Context, d projects.Draft, m *media.Draft, okStatus int) {
	session := h.workflow.Begin(lc, d, m)
	steps := []progressStep{}
	session.OnProgress(func(percent int, message string) {
		steps = append(steps, progressStep{Percent: percent, Message: message})
	})

	out, err := session.Save(c.Request.Context())
	if err != nil {
		session.Media.Release()
		var verr *projects.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "missing_fields", "missing": verr.Missing})
			return
		}
		h.fail(c, "Failed to save project", err)
		return
	}
	c.JSON(okStatus, gin.H{
		"project":  out.Project,
		"next":     nextNames[out.Next],
		"progress": steps,
	})
}

// ------------------------------
// DELETE /admin/projects/:id
// Files are removed after the row; a storage failure is only logged.
// ------------------------------
func (h *Handler) remove(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.store.Delete(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, "Failed to delete project", err)
		return
	}
	if urls := p.MediaURLs(); len(urls) > 0 && h.remover != nil {
		if err := h.remover.Remove(ctx, urls); err != nil {
			h.log.Warn("remove project media", zap.String("project_id", p.ID), zap.Strings("urls", urls), zap.Error(err))
		}
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, projects.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
	case errors.Is(err, projects.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict", "details": err.Error()})
	case errors.Is(err, projects.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "busy", "details": err.Error()})
	default:
		h.log.Error(msg, zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg, "details": err.Error()})
	}
}

func (h *Handler) badUpload(c *gin.Context, err error) {
	if errors.Is(err, errImageTooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": errImageTooLarge.Error(), "details": err.Error()})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid upload", "details": err.Error()})
}

// formLanguage is the language the text fields were typed in.
func formLanguage(c *gin.Context, lc i18n.Context) i18n.Language {
	if lang, ok := i18n.ParseLanguage(c.PostForm("language")); ok {
		return lang
	}
	return lc.Lang
}
