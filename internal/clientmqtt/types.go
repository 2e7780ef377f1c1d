package clientmqtt

import "time"

type MQTTConf struct {
	ClientID    string // ClientID - уникальное имя клиента для брокеров.
	Schema      string // Schema - тип подключения.
	Host        string // Host - адрес MQTT сервера.
	Port        string // Port - порт MQTT сервера.
	User        string // User - логин для подключения к MQTT серверу.
	Password    string // Password - пароль для подключения к MQTT серверу.
	Qos         byte   // Qos - качество обслуживания подписки.
	TopicPrefix string // TopicPrefix - корень топиков, например "lumibear".
}

const (
	availableTopic = "available"
	payloadOnline  = "online"
	payloadOffline = "offline"

	retryInterval  = 5 * time.Second
	keepAlive      = 30 * time.Second
	disconnectWait = 500 // ms
)
