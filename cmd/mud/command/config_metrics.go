package command

import "fmt"

const defaultMetricsPort = 9090

type MetricsConfig struct {
	Enabled bool `json:"enabled" env:"ENABLED"`
	Port    int  `json:"port" env:"PORT"`
}

func (c *MetricsConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("metrics port %d is out of range", c.Port)
	}
	return nil
}

func (c *MetricsConfig) port() int {
	if c.Port == 0 {
		return defaultMetricsPort
	}
	return c.Port
}
