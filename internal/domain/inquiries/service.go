package inquiries

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"makani-studio/internal/domain/i18n"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("inquiry not found")
	ErrIncomplete = errors.New("name, email and message are required")
)

// optionalColumns may be missing on older databases. When an insert error
// names one of them, it is dropped and the insert retried once.
var optionalColumns = []string{"message_i18n", "subject_i18n", "phone"}

// Mailer delivers a plain-text notification.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// Submission is the public contact form.
type Submission struct {
	Name     string
	Email    string
	Phone    string
	Subject  string
	Message  string
	Language i18n.Language
}

type Service struct {
	db         *gorm.DB
	translator i18n.Translator
	mailer     Mailer
	notifyTo   []string
	log        *zap.Logger
	now        func() time.Time
}

func NewService(db *gorm.DB, translator i18n.Translator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, translator: translator, log: log, now: time.Now}
}

// WithNotifications emails every new inquiry to the given addresses.
func (s *Service) WithNotifications(m Mailer, to []string) *Service {
	s.mailer = m
	s.notifyTo = to
	return s
}

// Submit stores an inquiry with its subject and message in every language.
func (s *Service) Submit(ctx context.Context, in Submission) (*Inquiry, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" || strings.TrimSpace(in.Message) == "" {
		return nil, ErrIncomplete
	}
	lang, ok := i18n.ParseLanguage(string(in.Language))
	if !ok {
		lang = i18n.EN
	}

	typ := TypeFromSubject(in.Subject)
	subjectI18n := SubjectI18n(typ)
	messageI18n := s.translator.TranslateToAll(ctx, in.Message, lang)

	inq := &Inquiry{
		ID:          uuid.NewString(),
		Type:        typ,
		Name:        name,
		Email:       email,
		Message:     in.Message,
		SubjectI18n: &subjectI18n,
		MessageI18n: &messageI18n,
		Status:      StatusNew,
		CreatedAt:   s.now().UTC(),
	}
	if p := strings.TrimSpace(in.Phone); p != "" {
		inq.Phone = &p
	}
	if in.Subject != "" {
		subject := in.Subject
		inq.Subject = &subject
	}

	row := map[string]interface{}{
		"id":           inq.ID,
		"type":         string(inq.Type),
		"name":         inq.Name,
		"email":        inq.Email,
		"phone":        inq.Phone,
		"subject":      inq.Subject,
		"subject_i18n": subjectI18n,
		"message":      inq.Message,
		"message_i18n": messageI18n,
		"status":       string(inq.Status),
		"created_at":   inq.CreatedAt,
	}
	err := s.insert(ctx, row)
	if err != nil {
		lower := strings.ToLower(err.Error())
		dropped := false
		for _, col := range optionalColumns {
			if strings.Contains(lower, col) {
				delete(row, col)
				dropped = true
			}
		}
		if !dropped {
			return nil, err
		}
		s.log.Warn("inquiry insert retried without optional columns", zap.Error(err))
		if err = s.insert(ctx, row); err != nil {
			return nil, err
		}
		if _, ok := row["message_i18n"]; !ok {
			inq.MessageI18n = nil
		}
		if _, ok := row["subject_i18n"]; !ok {
			inq.SubjectI18n = nil
		}
		if _, ok := row["phone"]; !ok {
			inq.Phone = nil
		}
	}

	s.notify(*inq)
	return inq, nil
}

func (s *Service) insert(ctx context.Context, row map[string]interface{}) error {
	return s.db.WithContext(ctx).Table("inquiries").Create(row).Error
}

// notify sends the admin email in the background. Failures are only logged.
func (s *Service) notify(inq Inquiry) {
	if s.mailer == nil || len(s.notifyTo) == 0 {
		return
	}
	subject := fmt.Sprintf("[Makani] %s from %s", SubjectI18n(inq.Type).EN, inq.Name)
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\nEmail: %s\n", inq.Name, inq.Email)
	if inq.Phone != nil {
		fmt.Fprintf(&b, "Phone: %s\n", *inq.Phone)
	}
	fmt.Fprintf(&b, "Type: %s\n\n%s\n", inq.Type, inq.Message)
	if inq.MessageI18n != nil && inq.MessageI18n.EN != inq.Message {
		fmt.Fprintf(&b, "\n(EN) %s\n", inq.MessageI18n.EN)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mailer.Send(ctx, s.notifyTo, subject, b.String()); err != nil {
			s.log.Warn("inquiry notification failed", zap.String("inquiry_id", inq.ID), zap.Error(err))
		}
	}()
}

// List returns inquiries newest first, optionally filtered by status.
func (s *Service) List(ctx context.Context, status string) ([]Inquiry, error) {
	q := s.db.WithContext(ctx).Order("created_at desc")
	if st, ok := ParseStatus(status); ok {
		q = q.Where("status = ?", st)
	}
	out := []Inquiry{}
	return out, q.Find(&out).Error
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (*Inquiry, error) {
	res := s.db.WithContext(ctx).Model(&Inquiry{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("update inquiry status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	var inq Inquiry
	if err := s.db.WithContext(ctx).First(&inq, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inq, nil
}

// Counts feeds the dashboard: all inquiries and those replied or archived.
func (s *Service) Counts(ctx context.Context) (total, completed int64, err error) {
	db := s.db.WithContext(ctx)
	if err = db.Model(&Inquiry{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = db.Model(&Inquiry{}).Where("status IN ?", []Status{StatusReplied, StatusArchived}).Count(&completed).Error
	return total, completed, err
}

func (s *Service) Latest(ctx context.Context, n int) ([]Inquiry, error) {
	out := []Inquiry{}
	err := s.db.WithContext(ctx).
		Select("id", "name", "email", "type", "status", "created_at").
		Order("created_at desc").
		Limit(n).
		Find(&out).Error
	return out, err
}
