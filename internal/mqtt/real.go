package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	clientID       = "ledring"
	bufferCapacity = 256
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// RealPublisher publishes to an actual MQTT broker. Messages produced while
// the connection is down are kept in a ring buffer and replayed on connect.
type RealPublisher struct {
	client paho.Client

	mu  sync.Mutex
	buf *ringBuffer
}

// NewRealPublisher creates a publisher for the given broker. A broker that
// does not answer within the connect timeout is not an error: the client
// keeps retrying in the background and messages are buffered meanwhile.
func NewRealPublisher(broker string) (*RealPublisher, error) {
	p := &RealPublisher{buf: newRingBuffer(bufferCapacity)}

	will, err := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "OFFLINE"})
	if err != nil {
		return nil, fmt.Errorf("format will payload: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOrderMatters(false).
		SetBinaryWill(TopicSystem, will, 1, true).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		})

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		log.Printf("mqtt: broker %s not reachable yet, buffering", broker)
		return p, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return p, nil
}

func (p *RealPublisher) onConnect(c paho.Client) {
	p.mu.Lock()
	msgs, dropped := p.buf.drainAll()
	p.mu.Unlock()

	if dropped > 0 {
		log.Printf("mqtt: %d buffered messages were dropped while offline", dropped)
	}
	if len(msgs) > 0 {
		log.Printf("mqtt: connected, replaying %d buffered messages", len(msgs))
	}
	for _, m := range msgs {
		c.Publish(m.topic, m.qos, m.retained, m.payload)
	}
}

// offer buffers msg if the connection is down and reports whether it did.
func (p *RealPublisher) offer(msg bufferedMsg) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client.IsConnectionOpen() {
		return false
	}
	if p.buf.push(msg) && p.buf.dropped == 1 {
		log.Printf("mqtt: buffer full (%d messages), dropping oldest", bufferCapacity)
	}
	return true
}

// Emit publishes a diagnostic line at QoS 0 without waiting for the broker.
func (p *RealPublisher) Emit(line string) {
	payload, err := FormatDiagPayload(time.Now(), line)
	if err != nil {
		log.Printf("mqtt: format diag payload: %v", err)
		return
	}
	if p.offer(bufferedMsg{topic: TopicDiag, payload: payload}) {
		return
	}
	p.client.Publish(TopicDiag, 0, false, payload)
}

// PublishSystem sends a system lifecycle event at QoS 1 and waits for the
// broker to acknowledge it. While disconnected the event is buffered instead.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	msg := bufferedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained}
	if p.offer(msg) {
		return nil
	}

	token := p.client.Publish(TopicSystem, 1, event.Retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish system timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}
	return nil
}

// IsConnected reports whether the broker connection is currently up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
