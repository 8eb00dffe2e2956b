package nuvo

import (
	"time"

	"github.com/nuvo-protocol/nuvo-go/pkg/interaction"
	"github.com/nuvo-protocol/nuvo-go/pkg/log"
	"github.com/nuvo-protocol/nuvo-go/pkg/profile"
)

// Config configures a Controller.
type Config struct {
	// Model is the amplifier model the controller expects to talk to.
	Model profile.Model

	// Timeout is the per-command reply deadline.
	// Zero means interaction.DefaultTimeout.
	Timeout time.Duration

	// Logger captures protocol events. Nil disables capture.
	Logger log.Logger

	// SkipModelCheck disables the product number check during Connect.
	SkipModelCheck bool

	// DisableStateTracking turns off the in-memory state image.
	DisableStateTracking bool

	// AsyncDispatch delivers subscriber callbacks on per-kind worker
	// goroutines instead of the read loop.
	AsyncDispatch bool

	// QueueDepth is the per-kind queue depth in async dispatch mode.
	// Zero means the subscription package default.
	QueueDepth int
}

// DefaultConfig returns the default configuration for a model.
func DefaultConfig(model profile.Model) Config {
	return Config{
		Model:   model,
		Timeout: interaction.DefaultTimeout,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	_, err := profile.Lookup(c.Model)
	return err
}
