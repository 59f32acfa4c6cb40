package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Directory errors surfaced to callers.
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

// Account is a credentialed identity. Its ID is mirrored into the profile
// table so record ownership and token subjects line up.
type Account struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	Name         string    `gorm:"size:255;not null"`
	Role         string    `gorm:"size:32;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Directory manages identity accounts: creation, credential checks, role
// metadata updates, and removal.
type Directory interface {
	CreateAccount(ctx context.Context, email, password, name, role string) (Account, error)
	Authenticate(ctx context.Context, email, password string) (Account, error)
	GetAccount(ctx context.Context, id string) (Account, error)
	UpdateRole(ctx context.Context, id, role string) error
	DeleteAccount(ctx context.Context, id string) error
}

type directory struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewDirectory constructs a GORM-backed identity directory.
func NewDirectory(db *gorm.DB, logger zerolog.Logger) Directory {
	return &directory{
		db:     db,
		logger: logger.With().Str("component", "identity_directory").Logger(),
	}
}

func (d *directory) CreateAccount(ctx context.Context, email, password, name, role string) (Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing Account
	err := d.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return Account{}, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Account{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}

	account := Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
	}

	if err := d.db.WithContext(ctx).Create(&account).Error; err != nil {
		return Account{}, err
	}

	d.logger.Info().Str("account_id", account.ID).Str("role", role).Msg("account created")

	return account, nil
}

func (d *directory) Authenticate(ctx context.Context, email, password string) (Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var account Account
	if err := d.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return Account{}, ErrInvalidCredentials
	}

	return account, nil
}

func (d *directory) GetAccount(ctx context.Context, id string) (Account, error) {
	var account Account
	if err := d.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, err
	}

	return account, nil
}

func (d *directory) UpdateRole(ctx context.Context, id, role string) error {
	result := d.db.WithContext(ctx).Model(&Account{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

func (d *directory) DeleteAccount(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Delete(&Account{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}

	return nil
}
