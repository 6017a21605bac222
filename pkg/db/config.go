package db

// Config holds the connection settings for the primary store. Type
// selects the dialect ("postgres", "mysql" or "sqlite"); pool limits
// and lifetimes are in seconds and left to the driver default when 0.
type Config struct {
	Type            string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxIdleConn     int
	MaxOpenConn     int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}
