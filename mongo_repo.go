package loanauth

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoAccountRepository struct {
	collection *mongo.Collection
}

type dbProfile struct {
	Username string `bson:"username"`
	Role     string `bson:"role"`
	Password string `bson:"password"`
}

type dbAccount struct {
	ID        string      `bson:"_id"`
	Name      string      `bson:"name"`
	Email     string      `bson:"email"`
	Profiles  []dbProfile `bson:"profiles"`
	CreatedAt time.Time   `bson:"createdAt"`
}

// NewMongoAccountRepository creates the unique email index before handing
// the repository out. Concurrent first registrations for one email are
// decided by that index, not by the service's prior read.
func NewMongoAccountRepository(ctx context.Context, c *mongo.Collection) (Repository, error) {
	_, err := c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	return &mongoAccountRepository{collection: c}, nil
}

func (m *mongoAccountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return m.findAccountBy(ctx, "email", email)
}

func (m *mongoAccountRepository) FindByID(ctx context.Context, id ID) (*Account, error) {
	return m.findAccountBy(ctx, "_id", string(id))
}

func (m *mongoAccountRepository) findAccountBy(ctx context.Context, key string, val string) (*Account, error) {
	var a dbAccount
	sr := m.collection.FindOne(ctx, bson.M{key: val})

	if sr.Err() == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err := sr.Decode(&a); err != nil {
		return nil, storageErr(err)
	}

	acc := accountFromDBAccount(a)
	return &acc, nil
}

func (m *mongoAccountRepository) Store(ctx context.Context, acc *Account) error {
	dba := dbAccountFromAccount(acc)
	_, err := m.collection.InsertOne(ctx, &dba)
	if mongo.IsDuplicateKeyError(err) {
		return ErrExistingEmail
	}
	return storageErr(err)
}

func (m *mongoAccountRepository) AppendProfile(ctx context.Context, id ID, p Profile) error {
	// The role filter folds the duplicate re-check and the append into one
	// document operation; a racing same-role append matches zero documents
	// instead of clobbering the other write.
	res, err := m.collection.UpdateOne(ctx,
		bson.M{"_id": string(id), "profiles.role": bson.M{"$ne": string(p.Role)}},
		bson.M{"$push": bson.M{"profiles": dbProfile{Username: p.Username, Role: string(p.Role), Password: p.Password}}},
	)
	if err != nil {
		return storageErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrExistingProfile
	}
	return nil
}

// storageErr folds driver-level unavailability into the service taxonomy
// so requests fail with 503 instead of hanging or leaking driver errors.
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return ErrStorageUnavailable
	}
	return err
}

func dbAccountFromAccount(acc *Account) dbAccount {
	profiles := make([]dbProfile, 0, len(acc.Profiles))
	for _, p := range acc.Profiles {
		profiles = append(profiles, dbProfile{Username: p.Username, Role: string(p.Role), Password: p.Password})
	}
	return dbAccount{ID: string(acc.ID), Name: acc.Name, Email: acc.Email, Profiles: profiles, CreatedAt: acc.CreatedAt}
}

func accountFromDBAccount(a dbAccount) Account {
	profiles := make([]Profile, 0, len(a.Profiles))
	for _, p := range a.Profiles {
		profiles = append(profiles, Profile{Username: p.Username, Role: Role(p.Role), Password: p.Password})
	}
	return Account{ID: ID(a.ID), Name: a.Name, Email: a.Email, Profiles: profiles, CreatedAt: a.CreatedAt}
}
