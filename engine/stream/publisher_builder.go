package stream

import (
	"time"

	"github.com/ralvey/morph-go/common"
	"github.com/ralvey/morph-go/engine/store"
	"github.com/rs/zerolog"
)

// PublisherBuilderOption is a function that modifies the publisher configuration.
type PublisherBuilderOption func(*publisher)

// WithFrameTopic sets the topic encoded frames are published to.
// Defaults to "morph/frames".
//
// Parameters:
//   - topic: the frame topic, ignored if empty
//
// Returns:
//   - PublisherBuilderOption: the option function
func WithFrameTopic(topic string) PublisherBuilderOption {
	return func(p *publisher) {
		p.frameTopic = common.Coalesce(topic, p.frameTopic)
	}
}

// WithCommandTopic sets the topic commands are consumed from.
// Defaults to "morph/commands".
//
// Parameters:
//   - topic: the command topic, ignored if empty
//
// Returns:
//   - PublisherBuilderOption: the option function
func WithCommandTopic(topic string) PublisherBuilderOption {
	return func(p *publisher) {
		p.commandTopic = common.Coalesce(topic, p.commandTopic)
	}
}

// WithQoS sets the MQTT quality of service for both topics.
//
// Parameters:
//   - qos: the delivery quality of service
//
// Returns:
//   - PublisherBuilderOption: the option function
func WithQoS(qos byte) PublisherBuilderOption {
	return func(p *publisher) {
		p.qos = qos
	}
}

// WithDebounce sets the coalescing window between a stage change and the
// published frame. Defaults to 50ms.
//
// Parameters:
//   - d: the debounce window, ignored if not positive
//
// Returns:
//   - PublisherBuilderOption: the option function
func WithDebounce(d time.Duration) PublisherBuilderOption {
	return func(p *publisher) {
		if d > 0 {
			p.debounce = d
		}
	}
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
//
// Parameters:
//   - log: the logger to use
//
// Returns:
//   - PublisherBuilderOption: the option function
func WithLogger(log zerolog.Logger) PublisherBuilderOption {
	return func(p *publisher) {
		p.log = log
	}
}

// WithStore attaches snapshot storage, enabling the save and load commands.
//
// Parameters:
//   - st: the snapshot store
//
// Returns:
//   - PublisherBuilderOption: the option function
func WithStore(st store.Store) PublisherBuilderOption {
	return func(p *publisher) {
		p.st = st
	}
}
