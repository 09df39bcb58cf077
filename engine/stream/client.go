package stream

import (
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Client is the narrow MQTT surface the bridge needs. paho's mqtt.Client
// satisfies it; tests substitute a local fake.
type Client interface {
	// Publish sends a payload to a topic.
	//
	// Parameters:
	//   - topic: the topic to publish to
	//   - qos: the delivery quality of service
	//   - retained: whether the broker retains the message
	//   - payload: the message body
	//
	// Returns:
	//   - mqtt.Token: completion token for the publish
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token

	// Subscribe registers a handler for a topic.
	//
	// Parameters:
	//   - topic: the topic filter to subscribe to
	//   - qos: the delivery quality of service
	//   - callback: the handler invoked per message
	//
	// Returns:
	//   - mqtt.Token: completion token for the subscribe
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token

	// Unsubscribe removes subscriptions for the given topics.
	//
	// Parameters:
	//   - topics: the topic filters to drop
	//
	// Returns:
	//   - mqtt.Token: completion token for the unsubscribe
	Unsubscribe(topics ...string) mqtt.Token

	// IsConnected reports whether the client has a live broker connection.
	//
	// Returns:
	//   - bool: true when connected
	IsConnected() bool
}

var _ Client = (mqtt.Client)(nil)
