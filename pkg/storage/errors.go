package storage

type storageError string

const (
	ErrNotFound  = storageError("capture not found")
	ErrNoDevices = storageError("capture has no devices table")
)

func (e storageError) Error() string {
	return string(e)
}
