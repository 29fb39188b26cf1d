package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"reflect"
	"strings"

	"github.com/golang/protobuf/proto"

	"github.com/robotalks/gyropad/pkg/keys"
	"github.com/robotalks/gyropad/pkg/protocol"
	"github.com/robotalks/gyropad/pkg/protocol/pb"
	"github.com/robotalks/gyropad/pkg/radio"
	"github.com/robotalks/gyropad/pkg/radio/mqtt"
)

var (
	mqttURL = "mqtt://localhost:1883/gyropad/"
	target  string
	keyName string
)

func init() {
	if val := os.Getenv("GYROPAD_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&target, "to", target, "Identity of the device to send a key to.")
	flag.StringVar(&keyName, "key", keyName, "Key to send, requires -to.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}

	if keyName != "" {
		if err := sendKey(q); err != nil {
			log.Fatalln(err)
		}
		return
	}

	q.Register("#", mqtt.Handler(func(topic string, payload []byte) {
		if strings.HasSuffix(topic, mqtt.AliveSuffix) {
			log.Printf("%s: %s alive", topic, payload)
			return
		}
		f, n, err := protocol.Parse(payload)
		if err != nil {
			log.Printf("%s: bad frame: %v", topic, err)
			return
		}
		msg, err := f.Message()
		if err != nil {
			log.Printf("%s: decode error: (cmd=%s) %v", topic, f.Cmd, err)
			return
		}
		log.Printf("%s: %d bytes [%s] %s", topic, n,
			reflect.Indirect(reflect.ValueOf(msg)).Type().Name(), proto.CompactTextString(msg))
	}))
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	<-(chan struct{})(nil)
}

func sendKey(q *mqtt.Queue) error {
	if target == "" {
		return fmt.Errorf("-to is required")
	}
	code, err := keys.ParseCode(keyName)
	if err != nil {
		return err
	}
	f, err := protocol.Encode(protocol.CmdRemoteKey, &pb.RemoteKey{Code: int32(code)})
	if err != nil {
		return err
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer q.Close()
	sub, _ := mqtt.NewLink(q, target).Topics(radio.RoleDefault)
	token := q.Pub(sub, f.Bytes())
	token.Wait()
	return token.Error()
}
