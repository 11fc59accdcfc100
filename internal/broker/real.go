package broker

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/meridian-iot/gatekeeper/internal/config"
)

// Real is a Channel backed by an actual MQTT broker connection.
type Real struct {
	mu     sync.Mutex
	client paho.Client
	cfg    config.Record
	sink   CommandSink
	notice func() []byte
	buf    *ringBuffer

	connected bool
}

// NewReal creates a Real Channel. sink receives decoded inbound payloads;
// notice, if non-nil, is invoked on every connect to produce the
// synthetic "just connected" status payload.
func NewReal(sink CommandSink, notice func() []byte) *Real {
	return &Real{sink: sink, notice: notice, buf: newRingBuffer(ReplayBufferDepth)}
}

func (r *Real) Start(cfg config.Record) error {
	if cfg.BrokerURI == "" {
		return nil
	}

	r.mu.Lock()
	r.cfg = cfg
	r.mu.Unlock()

	opts := paho.NewClientOptions().
		AddBroker(cfg.BrokerURI).
		SetClientID("gatekeeper").
		SetCleanSession(false).
		SetKeepAlive(KeepAlive * time.Second).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(r.onConnect).
		SetConnectionLostHandler(r.onConnectionLost)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("broker: connect timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("broker: connect: %w", err)
	}

	r.mu.Lock()
	r.client = client
	r.mu.Unlock()
	return nil
}

func (r *Real) onConnect(client paho.Client) {
	r.mu.Lock()
	cfg := r.cfg
	r.connected = true
	r.mu.Unlock()

	if cfg.TopicCmd != "" {
		client.Subscribe(cfg.TopicCmd, 1, func(_ paho.Client, msg paho.Message) {
			r.sink(msg.Payload())
		})
	}
	if cfg.TopicStat != "" && r.notice != nil {
		client.Publish(cfg.TopicStat, 1, true, r.notice())
	}

	r.mu.Lock()
	pending := r.buf.drainAll()
	r.mu.Unlock()
	for _, m := range pending {
		client.Publish(m.topic, m.qos, m.retained, m.payload)
	}
}

func (r *Real) onConnectionLost(_ paho.Client, _ error) {
	r.mu.Lock()
	r.connected = false
	r.mu.Unlock()
}

// Restart stops and destroys the current client, then reconnects from cfg.
func (r *Real) Restart(cfg config.Record) error {
	if err := r.Close(); err != nil {
		return err
	}
	return r.Start(cfg)
}

func (r *Real) publish(topic string, payload []byte) error {
	r.mu.Lock()
	client := r.client
	connected := r.connected
	r.mu.Unlock()

	if topic == "" || client == nil {
		return nil
	}
	msg := bufferedMsg{topic: topic, payload: payload, qos: 1, retained: true}
	if !connected {
		r.mu.Lock()
		r.buf.push(msg)
		r.mu.Unlock()
		return nil
	}

	token := client.Publish(topic, msg.qos, msg.retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("broker: publish timeout")
	}
	return token.Error()
}

func (r *Real) PublishStatus(payload []byte) error {
	r.mu.Lock()
	topic := r.cfg.TopicStat
	r.mu.Unlock()
	return r.publish(topic, payload)
}

func (r *Real) PublishTelemetry(payload []byte) error {
	r.mu.Lock()
	topic := r.cfg.TopicTele
	r.mu.Unlock()
	return r.publish(topic, payload)
}

func (r *Real) IsConnected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connected
}

func (r *Real) Close() error {
	r.mu.Lock()
	client := r.client
	r.client = nil
	r.connected = false
	r.mu.Unlock()

	if client != nil {
		client.Disconnect(250)
	}
	return nil
}
