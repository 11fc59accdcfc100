package config

import (
	"context"
	"errors"
	"log"

	badger "github.com/dgraph-io/badger/v4"
)

// Badger is a Store backed by an embedded BadgerDB instance, replacing the
// original firmware's NVS flash partition with an on-disk (or in-memory,
// for tests) key/value log.
type Badger struct {
	db *badger.DB
}

// BadgerOptions configures the on-disk store.
type BadgerOptions struct {
	// Dir is the directory for BadgerDB's data files. Required unless
	// InMemory is set.
	Dir string

	// InMemory runs BadgerDB without touching disk, for tests.
	InMemory bool
}

// NewBadger opens (creating if absent) a BadgerDB-backed Store.
func NewBadger(opts BadgerOptions) (*Badger, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("config: BadgerOptions.Dir is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(opts.Dir).WithLogger(quietLogger{})
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true)
	}
	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}
	return &Badger{db: db}, nil
}

var allKeys = []string{
	KeyWifiSSID, KeyWifiPass, KeyBootMode,
	KeyBrokerURI, KeyTopicCmd, KeyTopicStat, KeyTopicTele,
}

// Load reads every configuration key, treating absent keys as zero values
// so a fresh store yields a zero Record (which forces PROVISIONING).
func (b *Badger) Load(_ context.Context) (Record, error) {
	var r Record
	err := b.db.View(func(txn *badger.Txn) error {
		get := func(key string) (string, error) {
			item, err := txn.Get([]byte(key))
			if errors.Is(err, badger.ErrKeyNotFound) {
				return "", nil
			}
			if err != nil {
				return "", err
			}
			v, err := item.ValueCopy(nil)
			if err != nil {
				return "", err
			}
			return string(v), nil
		}

		var err error
		if r.WifiSSID, err = get(KeyWifiSSID); err != nil {
			return err
		}
		if r.WifiPass, err = get(KeyWifiPass); err != nil {
			return err
		}
		if r.BrokerURI, err = get(KeyBrokerURI); err != nil {
			return err
		}
		if r.TopicCmd, err = get(KeyTopicCmd); err != nil {
			return err
		}
		if r.TopicStat, err = get(KeyTopicStat); err != nil {
			return err
		}
		if r.TopicTele, err = get(KeyTopicTele); err != nil {
			return err
		}
		mode, err := get(KeyBootMode)
		if err != nil {
			return err
		}
		if mode == "1" {
			r.BootMode = BootOperational
		} else {
			r.BootMode = BootProvisioning
		}
		return nil
	})
	return r, err
}

// Save persists every non-pointer field of r as its own key. Each
// transaction commits a single key, keeping writes atomic per key.
func (b *Badger) Save(_ context.Context, r Record) error {
	mode := "0"
	if r.BootMode == BootOperational {
		mode = "1"
	}
	fields := map[string]string{
		KeyWifiSSID:  r.WifiSSID,
		KeyWifiPass:  r.WifiPass,
		KeyBrokerURI: r.BrokerURI,
		KeyTopicCmd:  r.TopicCmd,
		KeyTopicStat: r.TopicStat,
		KeyTopicTele: r.TopicTele,
		KeyBootMode:  mode,
	}
	for key, val := range fields {
		if err := b.db.Update(func(txn *badger.Txn) error {
			return txn.Set([]byte(key), []byte(val))
		}); err != nil {
			return err
		}
	}
	return nil
}

// Wipe erases every configuration key in one write batch.
func (b *Badger) Wipe(_ context.Context) error {
	wb := b.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range allKeys {
		if err := wb.Delete([]byte(key)); err != nil {
			return err
		}
	}
	return wb.Flush()
}

func (b *Badger) Close() error {
	return b.db.Close()
}

// quietLogger silences badger's info/debug chatter, surfacing only
// warnings and errors through the standard logger.
type quietLogger struct{}

func (quietLogger) Errorf(f string, v ...interface{})   { log.Printf("[badger] ERROR: "+f, v...) }
func (quietLogger) Warningf(f string, v ...interface{}) { log.Printf("[badger] WARN: "+f, v...) }
func (quietLogger) Infof(string, ...interface{})        {}
func (quietLogger) Debugf(string, ...interface{})       {}
