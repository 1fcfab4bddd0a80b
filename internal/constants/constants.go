package constants

import "time"

const (
	LoadTimeout        = 30 * time.Second
	RemoteFetchTimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 10 * time.Second
)

const (
	DBMaxOpenConns    = 4
	DBMaxIdleConns    = 4
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	ChartDefaultWidth  = 1024
	ChartDefaultHeight = 512
	ChartMinSize       = 64
	ChartMaxWidth      = 4096
	ChartMaxHeight     = 4096
)
