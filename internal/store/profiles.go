package store

import (
	"context"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/db"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/linkhub"
)

const pgErrCodeUniqueViolation = "23505"

var Module = fx.Provide(NewProfiles)

var profileColumns = []string{"id", "username", "user_id", "links", "theme", "version", "created_at", "updated_at"}

var orderColumns = map[string]string{
	"":           "created_at",
	"created_at": "created_at",
	"updated_at": "updated_at",
	"username":   "username",
}

// Query selects profiles. Zero fields do not filter; Limit zero means no limit.
type Query struct {
	Username string
	UserID   string
	OrderBy  string
	Asc      bool
	Limit    uint64
}

// Profiles is the profile table reached through gorm.
type Profiles struct {
	db  *gorm.DB
	now func() time.Time
}

func NewProfiles(gdb *gorm.DB) *Profiles {
	return &Profiles{db: gdb, now: time.Now}
}

func (s *Profiles) Select(ctx context.Context, q Query) ([]linkhub.Profile, error) {
	order, ok := orderColumns[q.OrderBy]
	if !ok {
		return nil, errors.Wrapf(linkhub.ErrValidationFailed, "cannot order by %q", q.OrderBy)
	}
	direction := " DESC"
	if q.Asc {
		direction = " ASC"
	}

	w := squirrel.Eq{}
	if q.Username != "" {
		w["username"] = q.Username
	}
	if q.UserID != "" {
		w["user_id"] = q.UserID
	}
	b := squirrel.Select(profileColumns...).From("profiles").OrderBy(order + direction)
	if len(w) != 0 {
		b = b.Where(w)
	}
	if q.Limit != 0 {
		b = b.Limit(q.Limit)
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	rows := make([]db.Profile, 0)
	res := s.db.WithContext(ctx).Raw(sql, args...).Scan(&rows)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "scan")
	}

	out := make([]linkhub.Profile, len(rows))
	for i := range rows {
		out[i] = *db.ToDomain(&rows[i])
	}
	return out, nil
}

func (s *Profiles) SelectOne(ctx context.Context, username string) (*linkhub.Profile, error) {
	row := db.Profile{}
	res := s.db.WithContext(ctx).Where("username = ?", username).First(&row)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(linkhub.ErrNotFound, "profile %q", username)
		}
		return nil, errors.Wrap(res.Error, "select profile")
	}
	return db.ToDomain(&row), nil
}

func (s *Profiles) Exists(ctx context.Context, username string) (bool, error) {
	var n int64
	res := s.db.WithContext(ctx).Model(&db.Profile{}).Where("username = ?", username).Count(&n)
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "count profiles")
	}
	return n > 0, nil
}

// Insert stores p, assigning its id, timestamps and initial version. A duplicate
// username is reported as linkhub.ErrUsernameTaken.
func (s *Profiles) Insert(ctx context.Context, p *linkhub.Profile) error {
	now := s.now().UTC()
	p.ID = uuid.New().String()
	p.Version = 1
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Theme == "" {
		p.Theme = linkhub.DefaultTheme
	}

	res := s.db.WithContext(ctx).Create(db.FromDomain(p))
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return errors.Wrapf(linkhub.ErrUsernameTaken, "username %q", p.Username)
		}
		return errors.Wrap(res.Error, "insert profile")
	}
	return nil
}

func (s *Profiles) UpdateLinks(ctx context.Context, username string, links []linkhub.Link, version int64) (int64, error) {
	if links == nil {
		links = []linkhub.Link{}
	}
	return s.update(ctx, username, version, map[string]interface{}{
		"links": datatypes.NewJSONSlice(links),
	})
}

func (s *Profiles) UpdateTheme(ctx context.Context, username, theme string, version int64) (int64, error) {
	return s.update(ctx, username, version, map[string]interface{}{
		"theme": theme,
	})
}

// update applies fields only if the stored version still equals version.
func (s *Profiles) update(ctx context.Context, username string, version int64, fields map[string]interface{}) (int64, error) {
	fields["version"] = gorm.Expr("version + 1")
	fields["updated_at"] = s.now().UTC()

	res := s.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("username = ? AND version = ?", username, version).
		Updates(fields)
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "update profile")
	}
	if res.RowsAffected == 0 {
		exists, err := s.Exists(ctx, username)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, errors.Wrapf(linkhub.ErrNotFound, "profile %q", username)
		}
		return 0, errors.Wrapf(linkhub.ErrVersionConflict, "profile %q at version %d", username, version)
	}
	return version + 1, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrCodeUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
