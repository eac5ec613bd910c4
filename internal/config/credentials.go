package config

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/zalando/go-keyring"
)

// KeyringService is the OS keychain service tokens are stored under.
const KeyringService = "issues-import"

// CredentialNames lists the tokens that can be stored.
var CredentialNames = []string{"jira", "youtrack", "notion", "github", "space"}

// CredentialStore reads and writes tokens by name.
type CredentialStore interface {
	Get(name string) (string, error)
	Set(name, token string) error
	Delete(name string) error
}

// Keyring stores tokens in the OS keychain.
type Keyring struct{}

func (Keyring) Get(name string) (string, error) {
	return keyring.Get(KeyringService, name)
}

func (Keyring) Set(name, token string) error {
	return keyring.Set(KeyringService, name, token)
}

func (Keyring) Delete(name string) error {
	return keyring.Delete(KeyringService, name)
}

// ValidateCredentialName rejects names outside CredentialNames.
func ValidateCredentialName(name string) error {
	for _, n := range CredentialNames {
		if n == name {
			return nil
		}
	}
	return usagef("unknown credential %q, expected one of %s", name, strings.Join(CredentialNames, ", "))
}

// FillCredentials sets every empty token of a from the store. Missing
// entries and an unavailable keychain leave the token empty.
func (a *Args) FillCredentials(store CredentialStore) {
	targets := map[string]*string{
		"jira":     &a.JiraAPIToken,
		"youtrack": &a.YouTrackToken,
		"notion":   &a.NotionToken,
		"github":   &a.GitHubToken,
		"space":    &a.SpaceToken,
	}
	for _, name := range CredentialNames {
		target := targets[name]
		if *target != "" {
			continue
		}
		token, err := store.Get(name)
		if errors.Is(err, keyring.ErrNotFound) {
			continue
		}
		if err != nil {
			log.Debug().Err(err).Str("credential", name).Msg("Keychain lookup failed")
			continue
		}
		*target = token
	}
}
