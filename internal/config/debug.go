package config

import "os"

func IsDebug() bool {
	return os.Getenv("GRID_DEBUG") == "1"
}
