package config

import (
	"crypto/rand"
	"fmt"

	"github.com/jrsteele09/ironrent/internal/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const devAdminPassword = "admin123"

// Secrets are resolved once at startup and never change for the life of the
// process. Changing JWT_SECRET invalidates every outstanding session.
type Secrets struct {
	SessionSecret     []byte
	AdminPasswordHash []byte
}

// LoadSecrets resolves the session signing secret and the admin password
// hash. Outside DEV both must be configured. In DEV a random secret and a
// well-known password are substituted so the site can run without setup.
func LoadSecrets(c Config) (Secrets, error) {
	var s Secrets

	if secret := c.GetSessionSecret(); secret != "" {
		s.SessionSecret = []byte(secret)
	} else if c.IsProduction() {
		return Secrets{}, errors.ErrMissingSecret
	} else {
		s.SessionSecret = make([]byte, 32)
		if _, err := rand.Read(s.SessionSecret); err != nil {
			return Secrets{}, fmt.Errorf("generating session secret: %w", err)
		}
		log.Warn().Msg("JWT_SECRET not set, using a random secret; sessions will not survive a restart")
	}

	if hash := c.GetAdminPasswordHash(); hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return Secrets{}, errors.Wrapf(err, "ADMIN_PASSWORD_HASH is not a bcrypt hash")
		}
		s.AdminPasswordHash = []byte(hash)
		return s, nil
	}

	password := c.GetAdminPassword()
	if password == "" {
		if c.IsProduction() {
			return Secrets{}, errors.ErrMissingPassword
		}
		log.Warn().Msg("ADMIN_PASSWORD not set, using the development default")
		password = devAdminPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Secrets{}, fmt.Errorf("hashing admin password: %w", err)
	}
	s.AdminPasswordHash = hash
	return s, nil
}
