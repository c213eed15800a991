package projects

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"

	"makani-studio/internal/domain/i18n"
	"makani-studio/internal/domain/media"

	"go.uber.org/zap"
)

var (
	ErrNotFound = errors.New("project not found")
	// ErrConflict means the row changed since the draft was loaded.
	ErrConflict = errors.New("project was modified by someone else")
	ErrBusy     = errors.New("a save is already in progress")
)

// ValidationError blocks a publish. Missing holds localized field labels.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

type State int

const (
	Idle State = iota
	Validating
	Translating
	Uploading
	Persisting
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Validating:
		return "validating"
	case Translating:
		return "translating"
	case Uploading:
		return "uploading"
	case Persisting:
		return "persisting"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Next tells the caller where the form goes after a successful save.
type Next int

const (
	// ResetDraft: a new unpublished project was created, the form is blank again.
	ResetDraft Next = iota
	// Stay: an existing project was saved as a draft.
	Stay
	// BackToList: the project was published.
	BackToList
)

// Progress receives a percentage and a localized message.
type Progress func(percent int, message string)

// Repository is the persistence the workflow needs.
type Repository interface {
	Create(ctx context.Context, p *Project) error
	Update(ctx context.Context, p *Project, expectedVersion int) error
	CategoryLabel(ctx context.Context, key string) (i18n.LocalizedText, error)
}

type Workflow struct {
	repo       Repository
	translator i18n.Translator
	uploader   media.Uploader
	remover    media.Remover
	log        *zap.Logger
}

func NewWorkflow(repo Repository, translator i18n.Translator, uploader media.Uploader, remover media.Remover, log *zap.Logger) *Workflow {
	if log == nil {
		log = zap.NewNop()
	}
	return &Workflow{repo: repo, translator: translator, uploader: uploader, remover: remover, log: log}
}

// Session is one edit session of a project form.
type Session struct {
	wf *Workflow
	lc i18n.Context

	mu       sync.Mutex
	state    State
	progress Progress

	Draft Draft
	Media *media.Draft
}

func (w *Workflow) Begin(lc i18n.Context, d Draft, m *media.Draft) *Session {
	if m == nil {
		m = media.EmptyDraft()
	}
	if d.Language == "" {
		d.Language = lc.Lang
	}
	return &Session{wf: w, lc: lc, Draft: d, Media: m}
}

func (s *Session) OnProgress(fn Progress) { s.progress = fn }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Session) report(percent int, key string) {
	if s.progress != nil {
		s.progress(percent, s.lc.T("admin", key))
	}
}

// Outcome of a successful save.
type Outcome struct {
	Project *Project
	Next    Next
}

// Save runs validation, translation, upload and persistence in order. A
// failed publish gate returns *ValidationError and leaves the session Idle.
func (s *Session) Save(ctx context.Context) (*Outcome, error) {
	s.mu.Lock()
	switch s.state {
	case Validating, Translating, Uploading, Persisting:
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.state = Validating
	s.mu.Unlock()

	editing := s.Draft.IsEdit()
	s.report(8, "progressPreparing")

	if s.Draft.Published {
		if missing := ValidateForPublish(s.lc, s.Draft, s.Media); len(missing) > 0 {
			s.setState(Idle)
			return nil, &ValidationError{Missing: missing}
		}
	}

	s.setState(Translating)
	texts := s.translate(ctx)

	s.setState(Uploading)
	s.report(pick(editing, 52, 50), "progressUploading")
	res, err := s.Media.Commit(ctx, s.wf.uploader, s.wf.remover)
	if err != nil {
		s.setState(Failed)
		return nil, err
	}

	s.setState(Persisting)
	s.report(pick(editing, 84, 82), "progressSaving")
	label, err := s.categoryLabel(ctx)
	if err != nil {
		return nil, s.abort(ctx, res, err)
	}
	p := ToPayload(s.Draft, texts, res.CoverURL, res.GalleryURLs, label)
	if editing {
		err = s.wf.repo.Update(ctx, &p, s.Draft.Version)
	} else {
		err = s.wf.repo.Create(ctx, &p)
	}
	if err != nil {
		return nil, s.abort(ctx, res, err)
	}

	s.Media.Settle(res)
	if editing {
		if err := s.Media.FinalizeRemovals(ctx, s.wf.remover); err != nil {
			s.wf.log.Warn("remove replaced project media",
				zap.String("project_id", p.ID),
				zap.Strings("urls", s.Media.RemovedRemoteURLs),
				zap.Error(err))
		}
	}

	out := &Outcome{Project: &p}
	switch {
	case p.Published:
		out.Next = BackToList
	case editing:
		out.Next = Stay
	default:
		out.Next = ResetDraft
	}

	if out.Next == ResetDraft {
		s.Media.Release()
		s.Draft = BlankDraft(s.Draft.Language)
		s.Media = media.EmptyDraft()
	} else {
		s.Draft.ID = p.ID
		s.Draft.Version = p.Version
	}

	s.setState(Done)
	s.report(100, "progressDone")
	return out, nil
}

// abort undoes the uploads of this attempt. Staged removals are kept since
// the last persisted row still references them.
func (s *Session) abort(ctx context.Context, res *media.CommitResult, cause error) error {
	if err := s.Media.Rollback(context.WithoutCancel(ctx), s.wf.remover, res); err != nil {
		s.wf.log.Warn("rollback uploaded project media",
			zap.Strings("urls", res.Uploaded),
			zap.Error(err))
	}
	s.setState(Failed)
	return cause
}

// translate runs the four free-text fields through the gateway one after the
// other. Status is a key and is never translated.
func (s *Session) translate(ctx context.Context) Texts {
	values := [...]string{s.Draft.Title, s.Draft.Location, s.Draft.Description, s.Draft.Concept}
	var out [len(values)]i18n.LocalizedText
	for i, v := range values {
		out[i] = s.wf.translator.TranslateToAll(ctx, v, s.Draft.Language)
		s.report(12+int(math.Round(float64(i+1)/float64(len(values))*32)), "progressTranslating")
	}
	return Texts{Title: out[0], Location: out[1], Description: out[2], Concept: out[3]}
}

func (s *Session) categoryLabel(ctx context.Context) (i18n.LocalizedText, error) {
	key := strings.TrimSpace(s.Draft.Category)
	if key == "" {
		return i18n.LocalizedText{}, nil
	}
	return s.wf.repo.CategoryLabel(ctx, key)
}

func pick(cond bool, a, b int) int {
	if cond {
		return a
	}
	return b
}
