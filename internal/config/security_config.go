package config

import "strconv"

const (
	adminPasswordEnvVar     = "ADMIN_PASSWORD"
	adminPasswordHashEnvVar = "ADMIN_PASSWORD_HASH"
	loginRateEnvVar         = "LOGIN_RATE_PER_MINUTE"
	loginBurstEnvVar        = "LOGIN_BURST"
	trustProxyEnvVar        = "TRUST_PROXY"
)

type SecurityConfig interface {
	GetAdminPassword() string
	GetAdminPasswordHash() string
	GetLoginRatePerMinute() int
	GetLoginBurst() int
	GetTrustProxyHeaders() bool
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetAdminPassword() string {
	return GetEnv(adminPasswordEnvVar, "")
}

// GetAdminPasswordHash returns a bcrypt hash of the admin password. When set
// it takes precedence over ADMIN_PASSWORD.
func (Security) GetAdminPasswordHash() string {
	return GetEnv(adminPasswordHashEnvVar, "")
}

func (Security) GetLoginRatePerMinute() int {
	return GetIntEnv(loginRateEnvVar, 5)
}

func (Security) GetLoginBurst() int {
	return GetIntEnv(loginBurstEnvVar, 5)
}

// GetTrustProxyHeaders reports whether X-Forwarded-For may be used to
// identify clients. Only enable behind a proxy that sets the header.
func (Security) GetTrustProxyHeaders() bool {
	v, err := strconv.ParseBool(GetEnv(trustProxyEnvVar, "false"))
	return err == nil && v
}
