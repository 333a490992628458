package alarm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

const requestTimeout = 5 * time.Second

// MQTT connection handler
var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

// MQTT connection lost handler
var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

type deviceRequest struct {
	Op          string          `json:"op"`
	Correlation string          `json:"correlation_id"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

type deviceReply struct {
	Error  string          `json:"error,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

// MQTTGateway reaches the device agent over MQTT. Commands go to
// minaret/<device>/alarms/requests with a per-request reply topic; push
// events arrive on minaret/<device>/notifications/events.
type MQTTGateway struct {
	client   mqtt.Client
	deviceID string

	mu     sync.RWMutex
	onPush PushHandler
}

var _ Gateway = (*MQTTGateway)(nil)

// NewMQTTGateway connects to the broker and returns a gateway bound to one
// device agent.
func NewMQTTGateway(brokerURL, deviceID string) (*MQTTGateway, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(fmt.Sprintf("minaret-%s", deviceID))
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &MQTTGateway{client: client, deviceID: deviceID}, nil
}

// SetPushHandler subscribes to the device's notification event stream. Events
// arriving before a handler is set are dropped.
func (g *MQTTGateway) SetPushHandler(h PushHandler) error {
	g.mu.Lock()
	g.onPush = h
	g.mu.Unlock()

	topic := fmt.Sprintf("minaret/%s/notifications/events", g.deviceID)
	token := g.client.Subscribe(topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
		var ev PushEvent
		if err := json.Unmarshal(msg.Payload(), &ev); err != nil {
			log.Warn().Err(err).Str("topic", msg.Topic()).Msg("undecodable push event")
			return
		}
		g.mu.RLock()
		handler := g.onPush
		g.mu.RUnlock()
		if handler != nil {
			handler(ev)
		}
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, token.Error())
	}
	return nil
}

// Close disconnects from the broker.
func (g *MQTTGateway) Close() {
	g.client.Disconnect(250)
}

func (g *MQTTGateway) request(ctx context.Context, op string, payload any, out any) error {
	correlation := uuid.NewString()
	replyTopic := fmt.Sprintf("minaret/%s/alarms/reply/%s", g.deviceID, correlation)

	replies := make(chan []byte, 1)
	token := g.client.Subscribe(replyTopic, 1, func(_ mqtt.Client, msg mqtt.Message) {
		select {
		case replies <- msg.Payload():
		default:
		}
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to reply topic: %w", token.Error())
	}
	defer g.client.Unsubscribe(replyTopic)

	var raw json.RawMessage
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		raw = encoded
	}
	body, err := json.Marshal(deviceRequest{Op: op, Correlation: correlation, Payload: raw})
	if err != nil {
		return err
	}

	requestTopic := fmt.Sprintf("minaret/%s/alarms/requests", g.deviceID)
	if token := g.client.Publish(requestTopic, 1, false, body); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to publish %s request: %w", op, token.Error())
	}

	select {
	case rawReply := <-replies:
		var reply deviceReply
		if err := json.Unmarshal(rawReply, &reply); err != nil {
			return fmt.Errorf("undecodable %s reply: %w", op, err)
		}
		switch reply.Error {
		case "":
		case "capacity_exhausted":
			return ErrCapacityExhausted
		default:
			return fmt.Errorf("alarm: device rejected %s: %s", op, reply.Error)
		}
		if out != nil && reply.Result != nil {
			return json.Unmarshal(reply.Result, out)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(requestTimeout):
		return fmt.Errorf("alarm: %s request timed out", op)
	}
}

func (g *MQTTGateway) RequestPermission(ctx context.Context, channels []ChannelDefinition) (bool, error) {
	var result struct {
		Granted bool `json:"granted"`
	}
	payload := struct {
		Channels []ChannelDefinition `json:"channels"`
	}{Channels: channels}
	if err := g.request(ctx, "permission", payload, &result); err != nil {
		return false, err
	}
	return result.Granted, nil
}

func (g *MQTTGateway) PendingAlarms(ctx context.Context) ([]PendingAlarm, error) {
	var result struct {
		Alarms []PendingAlarm `json:"alarms"`
	}
	if err := g.request(ctx, "list", nil, &result); err != nil {
		return nil, err
	}
	return result.Alarms, nil
}

func (g *MQTTGateway) Schedule(ctx context.Context, content Content, triggerAt time.Time, channel model.ChannelID) (string, error) {
	payload := struct {
		Content   Content         `json:"content"`
		TriggerAt int64           `json:"trigger_at"`
		Channel   model.ChannelID `json:"channel"`
	}{Content: content, TriggerAt: triggerAt.UnixMilli(), Channel: channel}

	var result struct {
		AlarmID string `json:"alarm_id"`
	}
	if err := g.request(ctx, "schedule", payload, &result); err != nil {
		return "", err
	}
	return result.AlarmID, nil
}

func (g *MQTTGateway) Cancel(ctx context.Context, alarmID string) error {
	payload := struct {
		AlarmID string `json:"alarm_id"`
	}{AlarmID: alarmID}
	return g.request(ctx, "cancel", payload, nil)
}
