package config

import "os"

type ServerConfig struct {
	Port    string
	JwksUrl string
}

func GetServerConfig() *ServerConfig {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &ServerConfig{
		Port:    port,
		JwksUrl: os.Getenv("JWKS_URL"),
	}
}
