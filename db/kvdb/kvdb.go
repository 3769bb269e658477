package kvdb

type DB interface {
	Set(bucket string, key string, value string) error
	// SetIfAbsent stores value only when key is not present yet and reports
	// whether it did. The check and the write happen in one transaction.
	SetIfAbsent(bucket string, key string, value string) (bool, error)
	Get(bucket string, key string) (string, error)
	Delete(bucket string, key string) error
	GetAllKeys(bucket string) ([]string, error)
	Close() error
}
