package auth

import (
	"github.com/vida-academica/backend/auth/password"
	"github.com/vida-academica/backend/auth/token"
)

// Config aggregates the auth core's configuration. Supplied once at process
// start, never hot-reloaded.
type Config struct {
	// Token configures the codec: signing secret and both TTLs.
	Token token.Config `mapstructure:"token"`

	// Password configures the hashing algorithm and cost.
	Password password.Config `mapstructure:"password"`

	// RevokeChainOnReplay revokes every active refresh record of a subject
	// when a replayed (already rotated) token id is redeemed.
	RevokeChainOnReplay bool `mapstructure:"revoke_chain_on_replay"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	c.Token.ApplyDefaults()
	c.Password.ApplyDefaults()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.Token.Validate(); err != nil {
		return err
	}
	return c.Password.Validate()
}
