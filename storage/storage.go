// Package storage defines the persistent key-value surface the client keeps its
// credential in.
package storage

// Storage is a string key-value store. Values survive for as long as the backing
// medium does.
type Storage interface {
	// Get returns the value stored under key and whether it exists.
	Get(key string) (string, bool)
	Set(key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error
}
