package bootstrap

import (
	"github.com/kbukum/lyrebird/config"
)

// Config is the constraint for application config types. Any struct
// embedding config.ServiceConfig and defining ApplyDefaults and Validate
// satisfies it.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
