package status

import "encoding/json"

// envelope is the wire format for topic_status and topic_tele.
type envelope struct {
	State      string `json:"state"`
	LsaOpen    bool   `json:"lsa_open"`
	LscClosed  bool   `json:"lsc_closed"`
	MotorOpen  bool   `json:"motor_open"`
	MotorClose bool   `json:"motor_close"`
	Err        int    `json:"err"`
}

// connectEnvelope is the synthetic "just connected" message the Broker
// Channel publishes on connect. It omits err entirely — the original
// firmware's publicar_json(topic, include_mot=true, include_err=false).
type connectEnvelope struct {
	State      string `json:"state"`
	LsaOpen    bool   `json:"lsa_open"`
	LscClosed  bool   `json:"lsc_closed"`
	MotorOpen  bool   `json:"motor_open"`
	MotorClose bool   `json:"motor_close"`
}

// MarshalStatus builds the full status/telemetry payload.
func MarshalStatus(s Snapshot) ([]byte, error) {
	return json.Marshal(envelope{
		State:      s.State.String(),
		LsaOpen:    s.LimitOpen,
		LscClosed:  s.LimitClosed,
		MotorOpen:  s.MotorOpen,
		MotorClose: s.MotorClose,
		Err:        int(s.Err),
	})
}

// MarshalConnectNotice builds the connect-time synthetic status payload.
func MarshalConnectNotice(s Snapshot) ([]byte, error) {
	return json.Marshal(connectEnvelope{
		State:      s.State.String(),
		LsaOpen:    s.LimitOpen,
		LscClosed:  s.LimitClosed,
		MotorOpen:  s.MotorOpen,
		MotorClose: s.MotorClose,
	})
}
