package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/MateusMartins/projetoPOS/internal/domain/entity"
	repo "github.com/MateusMartins/projetoPOS/internal/domain/repository"
	"github.com/MateusMartins/projetoPOS/internal/observability/metrics"
	"github.com/MateusMartins/projetoPOS/pkg/helpers"
	"github.com/MateusMartins/projetoPOS/pkg/mailer"
	mailtpl "github.com/MateusMartins/projetoPOS/pkg/mailer/templates"
	"github.com/MateusMartins/projetoPOS/pkg/validation"
)

// MailQueue accepts outgoing mail jobs.
type MailQueue interface {
	PublishJSON(ctx context.Context, body any) error
}

type AuthService struct {
	Users    repo.UserRepository
	Sessions repo.SessionRepository
	Mail     MailQueue // nil disables welcome mail
	Logger   logrus.FieldLogger
	AppName  string
	BaseURL  string
	Now      func() time.Time
	NewID    func() string
}

func NewAuthService(users repo.UserRepository, sessions repo.SessionRepository, mail MailQueue, logger logrus.FieldLogger, appName, baseURL string) *AuthService {
	return &AuthService{
		Users:    users,
		Sessions: sessions,
		Mail:     mail,
		Logger:   logger,
		AppName:  appName,
		BaseURL:  baseURL,
		Now:      time.Now,
		NewID:    uuid.NewString,
	}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"personname"`
	Username string `json:"username" validate:"username"`
	Email    string `json:"email" validate:"emailaddr"`
	Password string `json:"password" validate:"required,pwdbytes,eqfield=Confirm"`
	Confirm  string `json:"confirm"`
}

// Register stores a new user with a hashed password. It does not log the user in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	if fields := validation.Struct(in); fields != nil {
		metrics.RecordAuthEvent("register", false)
		return newValidationError(fields)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return err
	}
	u := &entity.User{Name: in.Name, Email: in.Email, Username: in.Username, PasswordHash: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		metrics.RecordStoreError("postgres")
		return storeErr("register", err)
	}
	metrics.RecordAuthEvent("register", true)
	s.log().WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user registered")

	s.enqueueWelcome(ctx, u)
	return nil
}

func (s *AuthService) enqueueWelcome(ctx context.Context, u *entity.User) {
	if s.Mail == nil {
		return
	}
	data := mailtpl.NewWelcomeData(s.AppName, s.BaseURL, u.Name, u.Username, u.Email, mailtpl.WithTime(s.now()))
	job := mailer.EmailJob{To: u.Email, Template: mailtpl.Welcome, Data: data}
	if err := s.Mail.PublishJSON(ctx, job); err != nil {
		metrics.RecordMailJob("failed")
		helpers.LogError(s.log(), "enqueue welcome mail failed", err, logrus.Fields{"username": u.Username})
		return
	}
	metrics.RecordMailJob("queued")
}

// Login verifies the credentials and replaces currentSID with a fresh logged-in session.
// Unknown users and wrong passwords yield the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, currentSID, username, password string) (*entity.Session, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		metrics.RecordAuthEvent("login", false)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		metrics.RecordStoreError("postgres")
		return nil, storeErr("login", err)
	}

	ok, err := helpers.VerifyPassword(u.PasswordHash, password)
	if err != nil {
		helpers.LogError(s.log(), "stored password hash unreadable", err, logrus.Fields{"user_id": u.ID})
	}
	if !ok {
		metrics.RecordAuthEvent("login", false)
		s.log().WithField("username", username).Info("login failed")
		return nil, ErrInvalidCredentials
	}

	if currentSID != "" {
		if err := s.Sessions.Delete(ctx, currentSID); err != nil {
			metrics.RecordStoreError("redis")
			return nil, storeErr("login", err)
		}
	}
	newID := s.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	sess := &entity.Session{ID: newID(), LoggedIn: true, Username: u.Username, CreatedAt: s.now().UTC()}
	if err := s.Sessions.Save(ctx, sess); err != nil {
		metrics.RecordStoreError("redis")
		return nil, storeErr("login", err)
	}
	metrics.RecordAuthEvent("login", true)
	s.log().WithField("username", u.Username).Info("user logged in")
	return sess, nil
}

// Logout ends the session; calling it again is harmless.
func (s *AuthService) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	if err := s.Sessions.Delete(ctx, sid); err != nil {
		metrics.RecordStoreError("redis")
		return storeErr("logout", err)
	}
	metrics.RecordAuthEvent("logout", true)
	return nil
}

// CurrentSession returns the logged-in session for sid or ErrNoSession.
func (s *AuthService) CurrentSession(ctx context.Context, sid string) (*entity.Session, error) {
	if sid == "" {
		return nil, ErrNoSession
	}
	sess, err := s.Sessions.Get(ctx, sid)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		metrics.RecordStoreError("redis")
		return nil, storeErr("session", err)
	}
	if !sess.LoggedIn {
		return nil, ErrNoSession
	}
	return sess, nil
}

// Flash queues a one-time message for the next page rendered for sid.
func (s *AuthService) Flash(ctx context.Context, sid, category, message string) error {
	if err := s.Sessions.PushFlash(ctx, sid, entity.Flash{Category: category, Message: message}); err != nil {
		return storeErr("flash", err)
	}
	return nil
}

// TakeFlashes returns and clears the pending messages for sid.
func (s *AuthService) TakeFlashes(ctx context.Context, sid string) ([]entity.Flash, error) {
	if sid == "" {
		return nil, nil
	}
	out, err := s.Sessions.PopFlashes(ctx, sid)
	if err != nil {
		return nil, storeErr("flash", err)
	}
	return out, nil
}

func (s *AuthService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *AuthService) log() logrus.FieldLogger { return orDiscard(s.Logger) }
