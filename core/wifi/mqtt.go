package wifi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

const disconnectQuiesce = 250 // milliseconds

// ErrMQTT wraps broker failures.
var ErrMQTT = errors.New("mqtt")

// mqttClient is the subset of the paho client the controller uses.
type mqttClient interface {
	IsConnected() bool
	Connect() pahomqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
	Disconnect(quiesce uint)
}

type commandPayload struct {
	Action    string `json:"action"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

// MQTTController publishes hotspot commands to a broker topic.
type MQTTController struct {
	cfg    MQTTConfig
	client mqttClient
	logger *zap.Logger

	mu sync.Mutex
}

// NewMQTTController builds the paho client. The broker is contacted lazily on
// the first command.
func NewMQTTController(cfg MQTTConfig, logger *zap.Logger) (*MQTTController, error) {
	if cfg.Broker == "" || cfg.Topic == "" {
		return nil, errors.New("mqtt driver requires broker and topic")
	}
	if cfg.QoS < 0 || cfg.QoS > 2 {
		return nil, fmt.Errorf("invalid mqtt qos %d", cfg.QoS)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(cfg.Timeout)
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		logger.Warn("MQTT connection lost", zap.Error(err))
	})

	return newMQTTController(cfg, pahomqtt.NewClient(opts), logger), nil
}

func newMQTTController(cfg MQTTConfig, client mqttClient, logger *zap.Logger) *MQTTController {
	return &MQTTController{cfg: cfg, client: client, logger: logger}
}

// Start implements Controller.
func (c *MQTTController) Start(ctx context.Context) error {
	return c.publish(ctx, "start")
}

// Stop implements Controller.
func (c *MQTTController) Stop(ctx context.Context) error {
	return c.publish(ctx, "stop")
}

func (c *MQTTController) connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client.IsConnected() {
		return nil
	}
	token := c.client.Connect()
	if !token.WaitTimeout(c.cfg.Timeout) {
		return fmt.Errorf("%w: connect timeout after %v", ErrMQTT, c.cfg.Timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: connect: %w", ErrMQTT, err)
	}
	return nil
}

func (c *MQTTController) publish(ctx context.Context, action string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.connect(); err != nil {
		return err
	}

	payload, err := json.Marshal(commandPayload{
		Action:    action,
		Source:    c.cfg.ClientID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	token := c.client.Publish(c.cfg.Topic, byte(c.cfg.QoS), false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.cfg.Timeout):
		return fmt.Errorf("%w: publish timeout after %v", ErrMQTT, c.cfg.Timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: publish: %w", ErrMQTT, err)
	}

	c.logger.Info("Published hotspot command", zap.String("action", action), zap.String("topic", c.cfg.Topic))
	return nil
}

// Close disconnects from the broker.
func (c *MQTTController) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client.IsConnected() {
		c.client.Disconnect(disconnectQuiesce)
	}
	return nil
}
