package eventpubsub

import (
	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
)

var bus EventBus.Bus

func Init() {
	bus = EventBus.New()
}

// Publish delivers the event synchronously to all subscribers of the topic.
// Synchronous delivery preserves the one-bar-at-a-time processing order the
// orchestrator relies on.
func Publish(topic string, event interface{}) {
	if bus == nil {
		Init()
	}

	bus.Publish(topic, event)
}

func Subscribe(topic string, callbackFn interface{}) error {
	if bus == nil {
		Init()
	}

	if err := bus.Subscribe(topic, callbackFn); err != nil {
		return err
	}

	log.Infof("Subscribed to topic %s", topic)
	return nil
}

func Unsubscribe(topic string, callbackFn interface{}) error {
	if bus == nil {
		return nil
	}

	return bus.Unsubscribe(topic, callbackFn)
}
