package save

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

// ErrNotFound is returned when a named save does not exist.
var ErrNotFound = errors.New("save not found")

// Store holds saved games by name.
type Store interface {
	Write(ctx context.Context, name string, data []byte) error
	Read(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
}

// Ext is the file extension FileStore adds to bare names.
const Ext = ".yaml"

// FileStore keeps saves as files in Dir.
type FileStore struct {
	Dir string
}

var _ Store = (*FileStore)(nil)

// Path returns the file a save name maps to. Names that already carry an
// extension are used as given.
func (s *FileStore) Path(name string) string {
	if filepath.Ext(name) == "" {
		name += Ext
	}
	return filepath.Join(s.Dir, name)
}

// Write stores data under name, creating Dir if needed.
func (s *FileStore) Write(_ context.Context, name string, data []byte) error {
	path := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return oops.Wrapf(err, "creating save directory for %s", name)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return oops.Wrapf(err, "writing save %s", path)
	}
	return nil
}

// Read returns the save stored under name.
func (s *FileStore) Read(_ context.Context, name string) ([]byte, error) {
	path := s.Path(name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, oops.Wrapf(ErrNotFound, "reading save %s", path)
	}
	if err != nil {
		return nil, oops.Wrapf(err, "reading save %s", path)
	}
	return data, nil
}

// List returns the names of the saves in Dir, sorted.
func (s *FileStore) List(_ context.Context) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.Dir, "*"+Ext))
	if err != nil {
		return nil, oops.Wrapf(err, "listing saves in %s", s.Dir)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(filepath.Base(m), Ext))
	}
	slices.Sort(names)
	return names, nil
}

// DefaultPrefix namespaces save keys in Redis.
const DefaultPrefix = "labyrinth:save:"

// RedisStore keeps saves as Redis strings under Prefix+name.
type RedisStore struct {
	Client redis.UniversalClient
	Prefix string
	TTL    time.Duration // zero keeps saves forever
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to a Redis server at addr.
func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{
		Client: redis.NewClient(&redis.Options{Addr: addr}),
		Prefix: DefaultPrefix,
	}
}

func (s *RedisStore) key(name string) string {
	return s.Prefix + name
}

// Write stores data under name.
func (s *RedisStore) Write(ctx context.Context, name string, data []byte) error {
	if err := s.Client.Set(ctx, s.key(name), data, s.TTL).Err(); err != nil {
		return oops.Wrapf(err, "storing save %s in redis", name)
	}
	return nil
}

// Read returns the save stored under name.
func (s *RedisStore) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := s.Client.Get(ctx, s.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, oops.Wrapf(ErrNotFound, "reading save %s from redis", name)
	}
	if err != nil {
		return nil, oops.Wrapf(err, "reading save %s from redis", name)
	}
	return data, nil
}

// List returns the stored save names, sorted.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var names []string
	iter := s.Client.Scan(ctx, 0, s.Prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), s.Prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, oops.Wrapf(err, "listing saves in redis")
	}
	slices.Sort(names)
	return names, nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.Client.Close()
}
