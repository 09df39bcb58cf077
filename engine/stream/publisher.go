package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/ralvey/morph-go/engine"
	"github.com/ralvey/morph-go/engine/store"
	"github.com/ralvey/morph-go/engine/telemetry"
	"github.com/rs/zerolog"
)

const (
	defaultFrameTopic   = "morph/frames"
	defaultCommandTopic = "morph/commands"
	defaultDebounce     = 50 * time.Millisecond
)

// publisher implements the Publisher interface.
// Bridges a stage to an MQTT broker: frames out, commands in.
type publisher struct {
	mu *sync.Mutex

	client Client
	stage  engine.Stage
	st     store.Store

	frameTopic   string
	commandTopic string
	qos          byte
	debounce     time.Duration
	log          zerolog.Logger

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	nudgeChannel chan struct{}
}

// Publisher streams encoded frames to the frame topic whenever the stage
// changes and applies JSON commands arriving on the command topic.
type Publisher interface {
	// Run subscribes to the command topic and starts the publish loop.
	// Publishing is change driven: Nudge arms a debounce window, and one
	// frame is derived and published when the window closes.
	//
	// Returns:
	//   - error: an error if the command subscription fails
	Run() error

	// Nudge signals that the stage changed. Nudges within one debounce
	// window coalesce into a single published frame.
	Nudge()

	// Stop shuts the publish loop down and drops the command
	// subscription. Safe to call more than once.
	Stop()
}

var _ Publisher = &publisher{}

// NewPublisher creates a publisher bridging the given stage to a broker.
//
// Parameters:
//   - client: the MQTT client, must be non-nil
//   - stage: the stage to publish, must be non-nil
//   - options: functional options for publisher configuration
//
// Returns:
//   - Publisher: the new Publisher instance
func NewPublisher(client Client, stage engine.Stage, options ...PublisherBuilderOption) Publisher {
	if client == nil {
		panic("stream: client is required")
	}
	if stage == nil {
		panic("stream: stage is required")
	}

	p := &publisher{
		mu:           &sync.Mutex{},
		client:       client,
		stage:        stage,
		frameTopic:   defaultFrameTopic,
		commandTopic: defaultCommandTopic,
		debounce:     defaultDebounce,
		log:          zerolog.Nop(),
		quitChannel:  make(chan struct{}),
		nudgeChannel: make(chan struct{}, 1),
	}

	for _, option := range options {
		option(p)
	}

	return p
}

func (p *publisher) Run() error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("stream: publisher already running")
	}
	p.running = true
	p.mu.Unlock()

	if token := p.client.Subscribe(p.commandTopic, p.qos, p.handleCommandMessage); token.Wait() && token.Error() != nil {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
		return fmt.Errorf("stream: subscribe %s: %w", p.commandTopic, token.Error())
	}

	p.wg.Add(1)
	go p.handle()

	p.log.Info().Str("frames", p.frameTopic).Str("commands", p.commandTopic).Msg("publisher running")
	return nil
}

func (p *publisher) Nudge() {
	select {
	case p.nudgeChannel <- struct{}{}:
	default:
	}
}

func (p *publisher) Stop() {
	p.quitOnce.Do(func() {
		close(p.quitChannel)
	})
	p.wg.Wait()

	p.mu.Lock()
	running := p.running
	p.running = false
	p.mu.Unlock()

	if running {
		if token := p.client.Unsubscribe(p.commandTopic); token.Wait() && token.Error() != nil {
			p.log.Warn().Err(token.Error()).Msg("unsubscribe failed")
		}
	}
}

// handle is the publish loop. The first nudge after an idle period arms
// the debounce timer; further nudges inside the window coalesce into the
// same frame.
func (p *publisher) handle() {
	defer p.wg.Done()

	timer := time.NewTimer(p.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	armed := false

	for {
		select {
		case <-p.quitChannel:
			if armed {
				if !timer.Stop() {
					<-timer.C
				}
				p.publishFrame()
			}
			return
		case <-p.nudgeChannel:
			if !armed {
				timer.Reset(p.debounce)
				armed = true
			}
		case <-timer.C:
			armed = false
			p.publishFrame()
		}
	}
}

func (p *publisher) publishFrame() {
	frame, err := p.stage.RenderFrame()
	if err != nil {
		p.log.Error().Err(err).Msg("frame derivation failed")
		return
	}
	data, err := frame.MarshalBinary()
	if err != nil {
		p.log.Error().Err(err).Msg("frame encoding failed")
		return
	}

	token := p.client.Publish(p.frameTopic, p.qos, false, data)
	token.Wait()
	if err := token.Error(); err != nil {
		p.log.Error().Err(err).Uint64("seq", frame.Seq).Msg("frame publish failed")
		return
	}
	p.log.Debug().Uint64("seq", frame.Seq).Int("bytes", len(data)).Msg("frame published")
}

func (p *publisher) handleCommandMessage(_ mqtt.Client, msg mqtt.Message) {
	ctx, span := telemetry.Tracer("morph.stream").Start(context.Background(), "command.apply")
	defer span.End()

	if err := p.applyCommand(ctx, msg.Payload()); err != nil {
		span.RecordError(err)
		p.log.Warn().Err(err).Str("topic", msg.Topic()).Msg("command dropped")
		return
	}
	p.Nudge()
}
