// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dalemusser/municipio/internal/app/system/authz"
	"github.com/dalemusser/municipio/internal/app/system/normalize"
	"github.com/dalemusser/municipio/internal/app/system/paging"
	"github.com/dalemusser/municipio/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// User statuses.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// BcryptCost is the work factor for stored password hashes.
const BcryptCost = 12

// MinPasswordLength is enforced on every password write.
const MinPasswordLength = 8

var (
	// ErrDuplicateEmail is returned when another user already has the email.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrInvalidCredentials covers unknown email, wrong password and
	// disabled accounts alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrWeakPassword is returned for passwords shorter than MinPasswordLength.
	ErrWeakPassword = fmt.Errorf("password must be at least %d characters", MinPasswordLength)

	errBadRole   = errors.New(`role must be "superadmin", "admin" or "setor_<slug>"`)
	errBadStatus = errors.New(`status must be "active" or "disabled"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("utilizadores")}
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func validStatus(s string) bool { return s == StatusActive || s == StatusDisabled }

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findOne(ctx, bson.M{"email": normalize.Email(email)})
}

// Names returns the display names of the users in ids. Unknown ids are
// absent from the map.
func (s *Store) Names(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	out := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"nome": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ID   primitive.ObjectID `bson:"_id"`
			Name string             `bson:"nome"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.ID] = row.Name
	}
	return out, cur.Err()
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	return u, err
}

// Create inserts a user after normalizing fields and hashing password.
func (s *Store) Create(ctx context.Context, u models.User, password string) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.NameCI = text.Fold(u.Name)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)
	if u.Status == "" {
		u.Status = StatusActive
	}
	if !authz.ValidRole(u.Role) {
		return models.User{}, errBadRole
	}
	if !validStatus(u.Status) {
		return models.User{}, errBadStatus
	}
	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	u.PasswordHash = hash

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// Update holds the mutable fields of a user. Nil fields are left unchanged;
// a non-empty Password replaces the hash.
type Update struct {
	Name     *string
	Email    *string
	Role     *string
	Status   *string
	Password string
}

// Update applies upd to user id and returns the stored user.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		name := normalize.Name(*upd.Name)
		set["nome"] = name
		set["nome_ci"] = text.Fold(name)
	}
	if upd.Email != nil {
		set["email"] = normalize.Email(*upd.Email)
	}
	if upd.Role != nil {
		role := normalize.Role(*upd.Role)
		if !authz.ValidRole(role) {
			return models.User{}, errBadRole
		}
		set["role"] = role
	}
	if upd.Status != nil {
		st := normalize.Status(*upd.Status)
		if !validStatus(st) {
			return models.User{}, errBadStatus
		}
		set["status"] = st
	}
	if upd.Password != "" {
		hash, err := HashPassword(upd.Password)
		if err != nil {
			return models.User{}, err
		}
		set["password_hash"] = hash
	}

	var u models.User
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return models.User{}, ErrNotFound
	case err != nil && wafflemongo.IsDup(err):
		return models.User{}, ErrDuplicateEmail
	}
	return u, err
}

// Delete removes user id.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Authenticate checks email and password. Disabled users cannot sign in.
func (s *Store) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if u.Status != StatusActive || u.PasswordHash == "" {
		return models.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// ListFilter narrows List.
type ListFilter struct {
	Search string // folded prefix of the name
	Role   string
	Status string
}

// List returns one keyset page of users ordered by folded name.
func (s *Store) List(ctx context.Context, f ListFilter, k paging.Keyset) ([]models.User, paging.Page, error) {
	filter := bson.M{}
	if f.Search != "" {
		filter["nome_ci"] = bson.M{"$regex": "^" + regexp.QuoteMeta(text.Fold(f.Search))}
	}
	if f.Role != "" {
		filter["role"] = normalize.Role(f.Role)
	}
	if f.Status != "" {
		filter["status"] = normalize.Status(f.Status)
	}
	if w := k.Window("nome_ci"); w != nil {
		filter["$or"] = w["$or"]
	}

	cur, err := s.c.Find(ctx, filter, k.FindOptions("nome_ci"))
	if err != nil {
		return nil, paging.Page{}, err
	}
	defer cur.Close(ctx)

	users := make([]models.User, 0)
	if err := cur.All(ctx, &users); err != nil {
		return nil, paging.Page{}, err
	}
	users, page := paging.Trim(k, users)
	page = paging.WithCursors(page, users,
		func(u models.User) string { return u.NameCI },
		func(u models.User) primitive.ObjectID { return u.ID },
	)
	return users, page, nil
}

// CountActiveAdmins counts active users with an admin role.
func (s *Store) CountActiveAdmins(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"role":   bson.M{"$in": []string{authz.RoleAdmin, authz.RoleSuperAdmin}},
		"status": StatusActive,
	})
}

// EnsureAdmin creates a superadmin with email when no user has it yet.
// It reports whether a user was created.
func (s *Store) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}
	_, err = s.Create(ctx, models.User{Name: name, Email: email, Role: authz.RoleSuperAdmin}, password)
	if errors.Is(err, ErrDuplicateEmail) {
		return false, nil
	}
	return err == nil, err
}
