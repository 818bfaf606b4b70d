package state

import (
	"time"

	"cssval/css"
	"cssval/mediaquery"
	"cssval/property"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		Reg:    property.Default(),
		Screen: mediaquery.DefaultScreen(),
		Format: css.DefaultFormat,
		start:  time.Now(),
	}
}
