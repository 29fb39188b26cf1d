package protocol

import (
	"fmt"

	"github.com/golang/protobuf/proto"

	"github.com/robotalks/gyropad/pkg/protocol/pb"
	"github.com/robotalks/gyropad/pkg/state"
)

// Command identifies the payload of a frame.
type Command byte

// Commands
const (
	CmdBasic     Command = 0x01
	CmdSampling  Command = 0x02
	CmdProcessed Command = 0x03
	CmdIdentity  Command = 0x10
	CmdLED       Command = 0x20
	CmdRemoteKey Command = 0x21
	CmdPing      Command = 0x30
)

type commandInfo struct {
	name string
	new  func() proto.Message
}

var commands = map[Command]commandInfo{
	CmdBasic:     {"basic", func() proto.Message { return &pb.BasicStatus{} }},
	CmdSampling:  {"sampling", func() proto.Message { return &pb.SamplingData{} }},
	CmdProcessed: {"processed", func() proto.Message { return &pb.ProcessedData{} }},
	CmdIdentity:  {"identity", func() proto.Message { return &pb.Identity{} }},
	CmdLED:       {"led", func() proto.Message { return &pb.LEDSettings{} }},
	CmdRemoteKey: {"remote-key", func() proto.Message { return &pb.RemoteKey{} }},
	CmdPing:      {"ping", func() proto.Message { return &pb.Ping{} }},
}

var frameKindCommands = [state.NumFrameKinds]Command{
	state.FrameBasic:     CmdBasic,
	state.FrameSampling:  CmdSampling,
	state.FrameProcessed: CmdProcessed,
}

// IsKnown checks the command is recognized.
func (c Command) IsKnown() bool {
	_, ok := commands[c]
	return ok
}

func (c Command) String() string {
	if info, ok := commands[c]; ok {
		return info.name
	}
	return fmt.Sprintf("cmd(0x%02x)", byte(c))
}

// CommandOf returns the command carrying the frame kind.
func CommandOf(kind state.FrameKind) (Command, bool) {
	if kind < 0 || kind >= state.NumFrameKinds {
		return 0, false
	}
	return frameKindCommands[kind], true
}

// Encode builds a frame from a payload message.
func Encode(cmd Command, msg proto.Message) (*Frame, error) {
	if !cmd.IsKnown() {
		return nil, ErrUnknownCommand
	}
	payload, err := proto.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %v", cmd, err)
	}
	if len(payload) > MaxPayload {
		return nil, ErrPayloadTooLarge
	}
	return &Frame{Cmd: cmd, Payload: payload}, nil
}

// Message decodes the payload into a new message of the command type.
func (f *Frame) Message() (proto.Message, error) {
	info, ok := commands[f.Cmd]
	if !ok {
		return nil, ErrUnknownCommand
	}
	msg := info.new()
	if err := proto.Unmarshal(f.Payload, msg); err != nil {
		return nil, fmt.Errorf("decode %s: %v", f.Cmd, err)
	}
	return msg, nil
}
