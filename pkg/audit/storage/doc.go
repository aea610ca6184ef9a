// Package storage provides audit record backends.
//
// MemoryStorage keeps a bounded number of records and is the default.
// SQLiteStorage persists them through either modernc.org/sqlite (driver
// "sqlite", no cgo) or github.com/mattn/go-sqlite3 (driver "sqlite3"),
// selected by audit.sqlite.driver.
package storage
