package mqtt

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/robotalks/gyropad/pkg/protocol"
	"github.com/robotalks/gyropad/pkg/radio"
)

// DefaultGroup is the pairing group when none is configured.
const DefaultGroup = "default"

var (
	// SubscribeTimeout bounds waiting for a role switch subscription.
	SubscribeTimeout = 2 * time.Second
	// HeartbeatInterval is the period of presence messages in a paired role.
	HeartbeatInterval = time.Second
	// PeerTimeout is how long a paired link stays up without hearing
	// from the peer.
	PeerTimeout = 3 * HeartbeatInterval
)

// AliveSuffix is appended to the role publish topic for presence messages.
const AliveSuffix = "/alive"

// Receiver accepts a received payload, returning false when it is dropped.
type Receiver func([]byte) bool

// Link is the MQTT wireless link. It implements radio.Radio and sends
// frames on the topic of its current role.
//
// Topics by role:
//
//	default    sub <id>/rx           pub <id>/tx
//	secondary  sub pair/<group>/down pub pair/<group>/up
//	primary    sub pair/<group>/up   pub pair/<group>/down
//
// In a paired role the link also publishes presence on <pub>/alive and
// is only up while the peer was heard within PeerTimeout.
type Link struct {
	Queue    *Queue
	Identity string
	Group    string
	Receiver Receiver
	Now      func() time.Time

	lock     sync.Mutex
	role     radio.Role
	subTopic string
	pubTopic string

	// read by the receive callback without the lock
	paired    atomic.Bool
	lastHeard atomic.Int64
}

// NewLink creates a Link.
func NewLink(q *Queue, identity string) *Link {
	l := &Link{Queue: q, Identity: identity, Group: DefaultGroup, Now: time.Now}
	q.OnConnect = func(*Queue) { l.heartbeat() }
	q.OnDisconnect = func(*Queue) { l.forgetPeer() }
	return l
}

// Topics returns the subscribe and publish topics of a role.
func (l *Link) Topics(role radio.Role) (sub, pub string) {
	group := l.Group
	if group == "" {
		group = DefaultGroup
	}
	switch role {
	case radio.RoleSecondary:
		return "pair/" + group + "/down", "pair/" + group + "/up"
	case radio.RolePrimary:
		return "pair/" + group + "/up", "pair/" + group + "/down"
	}
	return l.Identity + "/rx", l.Identity + "/tx"
}

// Role returns the current role.
func (l *Link) Role() radio.Role {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.role
}

// InitDefault implements radio.Radio.
func (l *Link) InitDefault() error {
	return l.switchTo(radio.RoleDefault)
}

// SwitchToSecondary implements radio.Radio.
func (l *Link) SwitchToSecondary() error {
	return l.switchTo(radio.RoleSecondary)
}

// SwitchToPrimary implements radio.Radio.
func (l *Link) SwitchToPrimary() error {
	return l.switchTo(radio.RolePrimary)
}

// LinkStatus implements radio.Radio.
func (l *Link) LinkStatus() bool {
	return l.Queue.Connected() && l.PeerAlive()
}

// PeerAlive reports whether the peer was heard recently, always true
// when not paired.
func (l *Link) PeerAlive() bool {
	if !l.paired.Load() {
		return true
	}
	heard := l.lastHeard.Load()
	return heard != 0 && l.Now().Sub(time.Unix(0, heard)) < PeerTimeout
}

func (l *Link) switchTo(role radio.Role) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	sub, pub := l.Topics(role)
	if l.subTopic != "" && l.subTopic != sub {
		l.Queue.Unsub(l.subTopic)
		l.Queue.Unsub(l.subTopic + AliveSuffix)
	}
	l.role, l.subTopic, l.pubTopic = role, sub, pub
	l.paired.Store(role != radio.RoleDefault)
	l.lastHeard.Store(0)
	glog.Infof("wireless role %s: sub %q pub %q", role, sub, pub)
	topics := []string{sub}
	if role != radio.RoleDefault {
		topics = append(topics, sub+AliveSuffix)
	}
	if !l.Queue.Connected() {
		// subscribed on connect
		for _, topic := range topics {
			l.Queue.Register(topic, l.receive)
		}
		return nil
	}
	for _, topic := range topics {
		token := l.Queue.Sub(topic, l.receive)
		if !token.WaitTimeout(SubscribeTimeout) {
			return fmt.Errorf("subscribe %q: timeout", topic)
		}
		if err := token.Error(); err != nil {
			return err
		}
	}
	return nil
}

func (l *Link) receive(topic string, payload []byte) {
	if l.paired.Load() {
		l.lastHeard.Store(l.Now().UnixNano())
		if strings.HasSuffix(topic, AliveSuffix) {
			return
		}
	}
	if l.Receiver == nil {
		return
	}
	if !l.Receiver(payload) {
		glog.V(2).Infof("RCV %q: %d bytes dropped", topic, len(payload))
	}
}

// SendFrame publishes a frame on the current role topic. It doesn't wait
// for delivery.
func (l *Link) SendFrame(f *protocol.Frame) (int, error) {
	if !l.Queue.Connected() {
		return 0, radio.ErrNotConnected
	}
	l.lock.Lock()
	topic := l.pubTopic
	l.lock.Unlock()
	if topic == "" {
		_, topic = l.Topics(radio.RoleDefault)
	}
	data := f.Bytes()
	l.Queue.Pub(topic, data)
	return len(data), nil
}

// Run connects to the broker and keeps the link until ctx is done.
func (l *Link) Run(ctx context.Context) error {
	l.lock.Lock()
	if l.subTopic == "" {
		l.subTopic, l.pubTopic = l.Topics(radio.RoleDefault)
		l.Queue.Register(l.subTopic, l.receive)
	}
	l.lock.Unlock()

	token := l.Queue.Connect()
	select {
	case <-ctx.Done():
		l.Queue.Close()
		return ctx.Err()
	case <-waitToken(token):
	}
	if err := token.Error(); err != nil {
		glog.Warningf("wireless link: %v", err)
		return err
	}
	ticker := time.NewTicker(HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			l.Queue.Close()
			return ctx.Err()
		case <-ticker.C:
			l.heartbeat()
		}
	}
}

// heartbeat announces presence to the peer in a paired role.
func (l *Link) heartbeat() {
	l.lock.Lock()
	role, topic := l.role, l.pubTopic+AliveSuffix
	l.lock.Unlock()
	if role == radio.RoleDefault || !l.Queue.Connected() {
		return
	}
	l.Queue.Pub(topic, []byte(l.Identity))
}

func (l *Link) forgetPeer() {
	l.lastHeard.Store(0)
}

func waitToken(token paho.Token) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		token.Wait()
		close(ch)
	}()
	return ch
}
