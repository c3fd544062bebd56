package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/codedocs/snippets-api/internal/core/domain"
)

const blacklistCollection = "token_blacklist"

// MongoBlacklistRepository is the append-only set of revoked refresh
// token identifiers. Rows are never deleted; expires_at is stored so a
// future offline compaction job can drop entries whose token would be
// rejected on expiry alone anyway.
type MongoBlacklistRepository struct {
	coll *mongo.Collection
}

func NewBlacklistRepository(db *mongo.Database) *MongoBlacklistRepository {
	return &MongoBlacklistRepository{coll: db.Collection(blacklistCollection)}
}

type blacklistEntry struct {
	JTI       string `bson:"jti"`
	UserID    string `bson:"user_id"`
	ExpiresAt int64  `bson:"expires_at"`
	RevokedAt int64  `bson:"revoked_at"`
}

// Add records the JTI as revoked. The upsert makes concurrent
// revocation of the same token idempotent.
func (r *MongoBlacklistRepository) Add(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	if jti == "" {
		return domain.ErrInvalidToken
	}

	entry := blacklistEntry{
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: expiresAt.Unix(),
		RevokedAt: time.Now().UTC().Unix(),
	}
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"jti": jti},
		bson.M{"$setOnInsert": entry},
		options.Update().SetUpsert(true))
	if err != nil {
		// A duplicate-key race between two upserts still means the
		// entry exists, which is the outcome we wanted.
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

func (r *MongoBlacklistRepository) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"jti": jti}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("blacklist lookup: %w", err)
	}
	return n > 0, nil
}
