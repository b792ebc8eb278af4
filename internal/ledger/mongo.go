package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/actadigital/registry/internal/domain"
)

// maxSeqAttempts bounds the retries when another writer takes the same seq.
const maxSeqAttempts = 16

type mongoLine struct {
	Log        string    `bson:"log"`
	Seq        int64     `bson:"seq"`
	Line       string    `bson:"line"`
	AppendedAt time.Time `bson:"appendedAt"`
}

// MongoLog stores each line as a document ordered by a per-log sequence
// number. An append is a single insert of last seq + 1; the unique
// (log, seq) index turns a concurrent writer into a retry, so seq n+1 is
// never stored before seq n.
type MongoLog struct {
	lines *mongo.Collection
	name  string
	mu    sync.Mutex
}

// NewMongoLog ensures the (log, seq) unique index and returns the log.
func NewMongoLog(ctx context.Context, db *mongo.Database, name string) (*MongoLog, error) {
	lines := db.Collection("ledger_lines")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "log", Value: 1}, {Key: "seq", Value: 1}}, Options: options.Index().SetUnique(true)}
	if _, err := lines.Indexes().CreateOne(ctx, idx); err != nil {
		return nil, fmt.Errorf("ledger %s index: %w: %w", name, domain.ErrStorageUnavailable, err)
	}
	return &MongoLog{lines: lines, name: name}, nil
}

func (m *MongoLog) Name() string { return m.name }

func (m *MongoLog) lastSeq(ctx context.Context) (int64, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "seq", Value: -1}}).SetProjection(bson.M{"seq": 1})
	var d mongoLine
	err := m.lines.FindOne(ctx, bson.M{"log": m.name}, opts).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return d.Seq, nil
}

func (m *MongoLog) Append(ctx context.Context, line []byte) error {
	// in-process writers queue here; other processes are handled by the index
	m.mu.Lock()
	defer m.mu.Unlock()

	for attempt := 0; attempt < maxSeqAttempts; attempt++ {
		last, err := m.lastSeq(ctx)
		if err != nil {
			return m.unavailable("append", err)
		}
		doc := mongoLine{Log: m.name, Seq: last + 1, Line: string(line), AppendedAt: time.Now().UTC()}
		_, err = m.lines.InsertOne(ctx, doc)
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return m.unavailable("append", err)
		}
	}
	return m.unavailable("append", fmt.Errorf("seq contention after %d attempts", maxSeqAttempts))
}

func (m *MongoLog) ReadAll(ctx context.Context) ([][]byte, error) {
	cur, err := m.lines.Find(ctx, bson.M{"log": m.name}, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, m.unavailable("read", err)
	}
	defer cur.Close(ctx)
	out := [][]byte{}
	for cur.Next(ctx) {
		var d mongoLine
		if err := cur.Decode(&d); err != nil {
			// same policy as a torn file line
			continue
		}
		out = append(out, []byte(d.Line))
	}
	if err := cur.Err(); err != nil {
		return nil, m.unavailable("read", err)
	}
	return out, nil
}

func (m *MongoLog) unavailable(op string, err error) error {
	return fmt.Errorf("%s ledger %s: %w: %w", op, m.name, domain.ErrStorageUnavailable, err)
}
