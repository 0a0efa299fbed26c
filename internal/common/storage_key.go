package common

// Keys of the local persistence adapter. They are shared by the sql and the
// redis drivers.
const (
	StorageKeyState    = "ecohabit-storage"
	StorageKeyIdentity = "ecohabit-user"
	StorageKeyUsers    = "ecohabit-users"
	StorageKeySession  = "ecohabit-session"
)
