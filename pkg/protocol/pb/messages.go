// Package pb defines the protobuf payloads carried in frames.
package pb

import (
	proto "github.com/golang/protobuf/proto"
)

// BasicStatus is the basic upload frame.
type BasicStatus struct {
	Identity   string `protobuf:"bytes,1,opt,name=identity,proto3" json:"identity,omitempty"`
	Mode       int32  `protobuf:"varint,2,opt,name=mode,proto3" json:"mode,omitempty"`
	VoltageRaw int32  `protobuf:"varint,3,opt,name=voltage_raw,json=voltageRaw,proto3" json:"voltage_raw,omitempty"`
	UptimeMs   uint32 `protobuf:"varint,4,opt,name=uptime_ms,json=uptimeMs,proto3" json:"uptime_ms,omitempty"`
}

func (m *BasicStatus) Reset()         { *m = BasicStatus{} }
func (m *BasicStatus) String() string { return proto.CompactTextString(m) }
func (*BasicStatus) ProtoMessage()    {}

// SamplingData carries raw sensor axes.
type SamplingData struct {
	VoltageRaw int32 `protobuf:"varint,1,opt,name=voltage_raw,json=voltageRaw,proto3" json:"voltage_raw,omitempty"`
	Ax         int32 `protobuf:"zigzag32,2,opt,name=ax,proto3" json:"ax,omitempty"`
	Ay         int32 `protobuf:"zigzag32,3,opt,name=ay,proto3" json:"ay,omitempty"`
	Az         int32 `protobuf:"zigzag32,4,opt,name=az,proto3" json:"az,omitempty"`
	Gx         int32 `protobuf:"zigzag32,5,opt,name=gx,proto3" json:"gx,omitempty"`
	Gy         int32 `protobuf:"zigzag32,6,opt,name=gy,proto3" json:"gy,omitempty"`
	Gz         int32 `protobuf:"zigzag32,7,opt,name=gz,proto3" json:"gz,omitempty"`
}

func (m *SamplingData) Reset()         { *m = SamplingData{} }
func (m *SamplingData) String() string { return proto.CompactTextString(m) }
func (*SamplingData) ProtoMessage()    {}

// ProcessedData carries the attitude in degrees.
type ProcessedData struct {
	VoltageRaw int32   `protobuf:"varint,1,opt,name=voltage_raw,json=voltageRaw,proto3" json:"voltage_raw,omitempty"`
	Roll       float32 `protobuf:"fixed32,2,opt,name=roll,proto3" json:"roll,omitempty"`
	Pitch      float32 `protobuf:"fixed32,3,opt,name=pitch,proto3" json:"pitch,omitempty"`
	Yaw        float32 `protobuf:"fixed32,4,opt,name=yaw,proto3" json:"yaw,omitempty"`
}

func (m *ProcessedData) Reset()         { *m = ProcessedData{} }
func (m *ProcessedData) String() string { return proto.CompactTextString(m) }
func (*ProcessedData) ProtoMessage()    {}

// Identity announces the sender to its peer.
type Identity struct {
	Name string `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
}

func (m *Identity) Reset()         { *m = Identity{} }
func (m *Identity) String() string { return proto.CompactTextString(m) }
func (*Identity) ProtoMessage()    {}

// LEDSettings configures the LED bank remotely.
type LEDSettings struct {
	Type      int32  `protobuf:"varint,1,opt,name=type,proto3" json:"type,omitempty"`
	Speed     int32  `protobuf:"varint,2,opt,name=speed,proto3" json:"speed,omitempty"`
	Luminance int32  `protobuf:"varint,3,opt,name=luminance,proto3" json:"luminance,omitempty"`
	Mask      uint32 `protobuf:"varint,4,opt,name=mask,proto3" json:"mask,omitempty"`
}

func (m *LEDSettings) Reset()         { *m = LEDSettings{} }
func (m *LEDSettings) String() string { return proto.CompactTextString(m) }
func (*LEDSettings) ProtoMessage()    {}

// RemoteKey injects a key press.
type RemoteKey struct {
	Code int32 `protobuf:"varint,1,opt,name=code,proto3" json:"code,omitempty"`
}

func (m *RemoteKey) Reset()         { *m = RemoteKey{} }
func (m *RemoteKey) String() string { return proto.CompactTextString(m) }
func (*RemoteKey) ProtoMessage()    {}

// Ping is a keep-alive.
type Ping struct {
	Seq uint32 `protobuf:"varint,1,opt,name=seq,proto3" json:"seq,omitempty"`
}

func (m *Ping) Reset()         { *m = Ping{} }
func (m *Ping) String() string { return proto.CompactTextString(m) }
func (*Ping) ProtoMessage()    {}
