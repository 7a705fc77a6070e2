/*
Package dbconfig is a micropackage that contains native store configuration
options.
*/
package dbconfig

type (
	// DBConfiguration describes configuration for the native store. Supported
	// types: [LevelDB], [BoltDB], [BadgerDB] or [InMemoryDB].
	DBConfiguration struct {
		Type            string          `yaml:"Type"`
		LevelDBOptions  LevelDBOptions  `yaml:"LevelDBOptions"`
		BoltDBOptions   BoltDBOptions   `yaml:"BoltDBOptions"`
		BadgerDBOptions BadgerDBOptions `yaml:"BadgerDBOptions"`
		// CacheSize enables an LRU read cache of the given number of
		// entries in front of the store when positive.
		CacheSize int `yaml:"CacheSize"`
	}
	// LevelDBOptions configuration for LevelDB.
	LevelDBOptions struct {
		DataDirectoryPath string `yaml:"DataDirectoryPath"`
		ReadOnly          bool   `yaml:"ReadOnly"`
	}
	// BoltDBOptions configuration for BoltDB.
	BoltDBOptions struct {
		FilePath string `yaml:"FilePath"`
		ReadOnly bool   `yaml:"ReadOnly"`
	}
	// BadgerDBOptions configuration for BadgerDB.
	BadgerDBOptions struct {
		Dir      string `yaml:"BadgerDir"`
		ReadOnly bool   `yaml:"ReadOnly"`
	}
)

// Supported store types.
const (
	LevelDB    = "leveldb"
	BoltDB     = "boltdb"
	BadgerDB   = "badgerdb"
	InMemoryDB = "inmemory"
)
