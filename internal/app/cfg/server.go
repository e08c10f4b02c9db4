package cfg

import (
	"ecocoleta/internal"
	"ecocoleta/internal/app/apps"
)

// CredentialsCfg is configuration for the administrator credentials.
type CredentialsCfg struct {
	username string
	password string
}

// NewCredentialsCfg creates a new CredentialsCfg.
func NewCredentialsCfg(username, password string) *CredentialsCfg {
	return &CredentialsCfg{username: username, password: password}
}

// CredentialsFromEnv creates a new CredentialsCfg from the current environment.
func CredentialsFromEnv() *CredentialsCfg {
	return &CredentialsCfg{
		username: internal.AdminUser,
		password: internal.AdminPassword,
	}
}

// ApplyServerApp applies the CredentialsCfg to a ServerApp.
func (cfg CredentialsCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.AdminUser = cfg.username
	app.AdminPassword = cfg.password
	return nil
}

// SeedCfg controls whether the demo points are loaded at startup.
type SeedCfg struct {
	seed bool
}

// NewSeedCfg creates a new SeedCfg.
func NewSeedCfg(seed bool) *SeedCfg {
	return &SeedCfg{seed: seed}
}

// SeedFromEnv creates a new SeedCfg from the current environment.
func SeedFromEnv() *SeedCfg {
	return &SeedCfg{seed: internal.Seed}
}

// ApplyServerApp applies the SeedCfg to a ServerApp.
func (cfg SeedCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.Seed = cfg.seed
	return nil
}
