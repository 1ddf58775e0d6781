package mqtt

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/sweeney/sound-and-vision/internal/logic"
)

// Options configures a RealClient.
type Options struct {
	Broker string
	NodeID string
	Group  string
	Inbox  *Inbox // receives calls from peers
	Logger *zap.Logger
}

// RealClient talks to an actual MQTT broker.
type RealClient struct {
	client      paho.Client
	nodeID      string
	rpcTopic    string
	systemTopic string
	inbox       *Inbox
	log         *zap.Logger
}

// NewRealClient connects to the broker and subscribes to the group's call
// topic. If the broker is unreachable the client keeps retrying in the
// background and the node runs without peers until it connects.
func NewRealClient(opts Options) (*RealClient, error) {
	c := &RealClient{
		nodeID:      opts.NodeID,
		rpcTopic:    RPCTopic(opts.Group),
		systemTopic: SystemTopic(opts.Group, opts.NodeID),
		inbox:       opts.Inbox,
		log:         opts.Logger,
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}

	will, err := FormatSystemPayload(SystemEvent{Event: "OFFLINE"})
	if err != nil {
		return nil, fmt.Errorf("format will: %w", err)
	}

	po := paho.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID("sound-and-vision-" + opts.NodeID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOrderMatters(false).
		SetWill(c.systemTopic, string(will), 1, true).
		SetOnConnectHandler(c.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			c.log.Warn("mqtt connection lost", zap.Error(err))
		})

	c.client = paho.NewClient(po)
	token := c.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		c.log.Warn("mqtt broker not reachable yet, retrying in background", zap.String("broker", opts.Broker))
		return c, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return c, nil
}

// onConnect (re)subscribes after every connect, since the session is not
// persistent.
func (c *RealClient) onConnect(client paho.Client) {
	c.log.Info("mqtt connected", zap.String("topic", c.rpcTopic))
	token := client.Subscribe(c.rpcTopic, 0, c.onMessage)
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		c.log.Error("mqtt subscribe failed", zap.String("topic", c.rpcTopic), zap.Error(token.Error()))
	}
}

func (c *RealClient) onMessage(_ paho.Client, msg paho.Message) {
	from, call, err := ParseCall(msg.Payload())
	if err != nil {
		c.log.Warn("dropping malformed call", zap.String("topic", msg.Topic()), zap.Error(err))
		return
	}
	if from == c.nodeID {
		return
	}
	if c.inbox != nil {
		c.inbox.Push(call)
	}
}

// Broadcast sends a call to the group at QoS 0 without waiting for the broker.
func (c *RealClient) Broadcast(call logic.Call) error {
	payload, err := FormatCall(c.nodeID, call, time.Now())
	if err != nil {
		return fmt.Errorf("format call: %w", err)
	}
	if !c.client.IsConnectionOpen() {
		return ErrNotConnected
	}
	c.client.Publish(c.rpcTopic, 0, false, payload)
	return nil
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (c *RealClient) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events
	token := c.client.Publish(c.systemTopic, 1, event.Retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish system timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}

	return nil
}

// IsConnected reports whether the broker connection is up.
func (c *RealClient) IsConnected() bool {
	return c.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (c *RealClient) Close() error {
	c.client.Disconnect(1000) // 1 second timeout
	return nil
}
