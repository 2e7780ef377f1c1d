package clientmqtt

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"lumibear/internal/logger"
	"lumibear/internal/lumibear"
)

// ClientMQTT переводит сообщения MQTT в команды лампы.
// Топик <prefix>/<op>, полезная нагрузка - аргументы команды.
type ClientMQTT struct {
	ctx        context.Context
	log        logger.Logger
	cfgClient  MQTTConf
	client     mqtt.Client
	opts       *mqtt.ClientOptions
	dispatcher lumibear.Dispatcher
}

// NewClient конструктор.
func NewClient(log logger.Logger, cfgClient MQTTConf, dispatcher lumibear.Dispatcher) *ClientMQTT {
	if cfgClient.Schema == "" {
		cfgClient.Schema = "tcp"
	}
	return &ClientMQTT{
		log:        log,
		cfgClient:  cfgClient,
		dispatcher: dispatcher,
	}
}

func (c *ClientMQTT) Start(ctx context.Context) error {
	if c.log.GetLevel() == "debug" {
		mqtt.ERROR = log.New(os.Stdout, "[ERROR] ", 0)
		mqtt.CRITICAL = log.New(os.Stdout, "[CRIT] ", 0)
		mqtt.WARN = log.New(os.Stdout, "[WARN]  ", 0)
	}

	c.ctx = ctx

	c.opts = mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("%s://%s:%s", c.cfgClient.Schema, c.cfgClient.Host, c.cfgClient.Port)).
		SetUsername(c.cfgClient.User).
		SetPassword(c.cfgClient.Password).
		SetOnConnectHandler(c.connectHandler).
		SetConnectionLostHandler(c.connectLostHandler).
		SetClientID(c.cfgClient.ClientID).
		SetWill(c.topic(availableTopic), payloadOffline, 1, true).
		SetOrderMatters(false).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(retryInterval).
		SetMaxReconnectInterval(retryInterval).
		SetKeepAlive(keepAlive)

	c.client = mqtt.NewClient(c.opts)

	token := c.client.Connect()
	select {
	case <-token.Done():
		if token.Error() != nil {
			return token.Error()
		}
	case <-c.ctx.Done():
		return errors.New("context canceled")
	}

	c.log.With(logger.Fields{"module": "mqtt"}).Infof("Status: %v", c.client.IsConnected())
	return nil
}

func (c *ClientMQTT) Stop() error {
	if c.client != nil && c.client.IsConnected() {
		c.client.Publish(c.topic(availableTopic), 1, true, payloadOffline).WaitTimeout(disconnectWait * time.Millisecond)
		c.client.Disconnect(disconnectWait)
	}
	return nil
}

func (c *ClientMQTT) topic(name string) string {
	return strings.TrimSuffix(c.cfgClient.TopicPrefix, "/") + "/" + name
}

// connectHandler subscribes again after every reconnect since the session is clean.
func (c *ClientMQTT) connectHandler(client mqtt.Client) {
	c.log.With(logger.Fields{"module": "mqtt"}).Info("client connected to server")
	c.publish(client, c.topic(availableTopic), payloadOnline)
	c.sub(client, c.topic("+"))
}

func (c *ClientMQTT) connectLostHandler(_ mqtt.Client, err error) {
	c.log.With(logger.Fields{"module": "mqtt"}).Errorf("server connect lost: %v", err)
}

func (c *ClientMQTT) messageHandler(_ mqtt.Client, msg mqtt.Message) {
	c.handle(msg.Topic(), string(msg.Payload()))
}

// handle decodes one message and forwards it to the lamp.
func (c *ClientMQTT) handle(topic, payload string) {
	log := c.log.With(logger.Fields{"module": "mqtt", "topic": topic})

	op := topic[strings.LastIndex(topic, "/")+1:]
	if op == availableTopic {
		return
	}
	// payloads are passed on as is, only a line ending from shell tools is dropped.
	cmd, err := lumibear.Decode(op, strings.TrimRight(payload, "\r\n"))
	if err != nil {
		log.Warnf("message dropped: %v", err)
		return
	}
	log.Debugf("received message: %q", payload)
	if err := c.dispatcher.Dispatch(cmd); err != nil {
		log.Errorf("failed to send %s: %v", cmd, err)
	}
}

func (c *ClientMQTT) sub(client mqtt.Client, topic string) {
	token := client.Subscribe(topic, c.cfgClient.Qos, c.messageHandler)
	go func() {
		select {
		case <-c.ctx.Done():
			return
		case <-token.Done():
			if token.Error() != nil {
				c.log.With(logger.Fields{"module": "mqtt"}).Errorf("topic %s subscription error. %v", topic, token.Error())
				return
			}
		}
		c.log.With(logger.Fields{"module": "mqtt"}).Debugf("topic %s subscribed", topic)
	}()
}

func (c *ClientMQTT) publish(client mqtt.Client, topic, payload string) {
	token := client.Publish(topic, 1, true, payload)
	go func() {
		select {
		case <-c.ctx.Done():
			return
		case <-token.Done():
			if token.Error() != nil {
				c.log.With(logger.Fields{"module": "mqtt"}).Errorf("error publish topic %s. %v", topic, token.Error())
			}
		}
	}()
}
