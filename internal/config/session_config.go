package config

import (
	"strings"
	"time"
)

const (
	jwtSecretEnvVar       = "JWT_SECRET"
	sessionDurationEnvVar = "SESSION_DURATION"
	renewThresholdEnvVar  = "SESSION_RENEW_THRESHOLD"
	protectedPathsEnvVar  = "PROTECTED_PATHS"
)

type SessionConfig interface {
	GetSessionSecret() string
	GetSessionDuration() time.Duration
	GetRenewThreshold() time.Duration
	GetProtectedPaths() []string
}

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetSessionSecret() string {
	return GetEnv(jwtSecretEnvVar, "")
}

func (Session) GetSessionDuration() time.Duration {
	return GetDurationEnv(sessionDurationEnvVar, 1*time.Hour)
}

// GetRenewThreshold is the remaining lifetime below which a valid session
// is reissued on the next request.
func (s Session) GetRenewThreshold() time.Duration {
	threshold := GetDurationEnv(renewThresholdEnvVar, 15*time.Minute)
	if d := s.GetSessionDuration(); threshold >= d {
		threshold = d / 4
	}
	return threshold
}

func (Session) GetProtectedPaths() []string {
	var paths []string
	for _, p := range strings.Split(GetEnv(protectedPathsEnvVar, "/admin"), ",") {
		p = strings.TrimRight(strings.TrimSpace(p), "/")
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		paths = append(paths, p)
	}
	return paths
}
