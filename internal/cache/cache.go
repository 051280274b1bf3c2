// Package cache stores generated wireframe UV channels in a badger database
// keyed by a fingerprint of the mesh and the labelling settings.
package cache

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"

	"github.com/Faultbox/wireframe-uv/pkg/mesh"
)

// Errors returned by the cache.
var (
	ErrCorruptEntry = errors.New("corrupt cache entry")
	ErrClosed       = errors.New("cache is closed")
)

const entryVersion = 1

var keyPrefix = []byte("uv/")

// Key identifies one labelling run.
type Key uint64

// Entry is a cached UV channel.
type Entry struct {
	Components int
	Data       [][4]float32
}

// Fingerprint hashes everything that determines the labelling result: the
// positions, every submesh index buffer, the cutoff and the channel.
func Fingerprint(m *mesh.Mesh, cutoffDegrees float32, channel int) Key {
	d := xxhash.New()
	var buf [8]byte

	writeU32 := func(v uint32) {
		binary.LittleEndian.PutUint32(buf[:4], v)
		_, _ = d.Write(buf[:4])
	}

	writeU32(uint32(len(m.Positions)))
	for _, p := range m.Positions {
		writeU32(math.Float32bits(p.X))
		writeU32(math.Float32bits(p.Y))
		writeU32(math.Float32bits(p.Z))
	}
	writeU32(uint32(len(m.Submeshes)))
	for _, indices := range m.Submeshes {
		writeU32(uint32(len(indices)))
		for _, idx := range indices {
			writeU32(uint32(idx))
		}
	}
	writeU32(math.Float32bits(cutoffDegrees))
	writeU32(uint32(channel))

	return Key(d.Sum64())
}

// Cache is a persistent store of UV results.
type Cache struct {
	db *badger.DB
}

// Open opens or creates the cache in dir. An empty dir keeps the cache in
// memory.
func Open(dir string) (*Cache, error) {
	dbOpts := badger.DefaultOptions(dir)
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false
	if dir == "" {
		dbOpts.InMemory = true
	}

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening cache at %q", dir)
	}
	return &Cache{db: db}, nil
}

// Get returns the entry stored under key. The boolean is false on a miss.
func (c *Cache) Get(key Key) (*Entry, bool, error) {
	if c.db == nil {
		return nil, false, ErrClosed
	}

	var entry *Entry
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(dbKey(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			entry, err = decodeEntry(val)
			return err
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "reading cache key %016x", uint64(key))
	}
	return entry, true, nil
}

// Put stores entry under key, replacing any previous value.
func (c *Cache) Put(key Key, entry *Entry) error {
	if c.db == nil {
		return ErrClosed
	}
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(dbKey(key), encodeEntry(entry))
	})
	return errors.Wrapf(err, "writing cache key %016x", uint64(key))
}

// Close flushes and closes the database.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

func dbKey(key Key) []byte {
	k := make([]byte, len(keyPrefix), len(keyPrefix)+8)
	copy(k, keyPrefix)
	return binary.BigEndian.AppendUint64(k, uint64(key))
}

// Layout: version u8, components u8, count uvarint, then components
// float32 values per vertex.
func encodeEntry(e *Entry) []byte {
	buf := make([]byte, 0, 2+binary.MaxVarintLen64+len(e.Data)*e.Components*4)
	buf = append(buf, entryVersion, byte(e.Components))
	buf = binary.AppendUvarint(buf, uint64(len(e.Data)))
	for _, uv := range e.Data {
		for c := 0; c < e.Components; c++ {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(uv[c]))
		}
	}
	return buf
}

func decodeEntry(val []byte) (*Entry, error) {
	if len(val) < 2 || val[0] != entryVersion {
		return nil, ErrCorruptEntry
	}
	e := &Entry{Components: int(val[1])}
	if e.Components < 1 || e.Components > 4 {
		return nil, errors.Wrapf(ErrCorruptEntry, "%d components", e.Components)
	}

	count, n := binary.Uvarint(val[2:])
	if n <= 0 {
		return nil, errors.Wrap(ErrCorruptEntry, "bad vertex count")
	}
	body := val[2+n:]
	if uint64(len(body)) != count*uint64(e.Components)*4 {
		return nil, errors.Wrapf(ErrCorruptEntry, "%d bytes for %d vertices", len(body), count)
	}

	e.Data = make([][4]float32, count)
	for v := range e.Data {
		for c := 0; c < e.Components; c++ {
			e.Data[v][c] = math.Float32frombits(binary.LittleEndian.Uint32(body))
			body = body[4:]
		}
	}
	return e, nil
}
