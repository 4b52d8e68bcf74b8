package redis

import (
	"fmt"

	"github.com/mediocregopher/radix/v3"
)

// Config structure
type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	PoolSize int    `mapstructure:"pool_size"`
}

// Connect opens a connection pool against the configured redis instance
func Connect(cfg Config) (*radix.Pool, error) {
	size := cfg.PoolSize
	if size == 0 {
		size = 10
	}
	opts := []radix.DialOpt{}
	if cfg.Password != "" {
		opts = append(opts, radix.DialAuthPass(cfg.Password))
	}
	connFunc := func(network, addr string) (radix.Conn, error) {
		return radix.Dial(network, addr, opts...)
	}
	return radix.NewPool("tcp", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), size, radix.PoolConnFunc(connFunc))
}
