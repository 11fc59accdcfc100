package broker

import "github.com/meridian-iot/gatekeeper/internal/config"

// publishedMsg records one call to PublishStatus/PublishTelemetry.
type publishedMsg struct {
	Topic   string
	Payload []byte
}

// Fake is a Channel test double that records publishes and lets tests
// script inbound command delivery via DeliverCommand.
type Fake struct {
	Started []config.Record
	Cfg     config.Record

	Status []publishedMsg
	Tele   []publishedMsg

	sink   CommandSink
	notice func() []byte

	Connected  bool
	Closed     bool
	StartErr   error
	PublishErr error
}

// NewFake creates a Fake Channel.
func NewFake(sink CommandSink, notice func() []byte) *Fake {
	return &Fake{sink: sink, notice: notice}
}

func (f *Fake) Start(cfg config.Record) error {
	if cfg.BrokerURI == "" {
		return nil
	}
	if f.StartErr != nil {
		return f.StartErr
	}
	f.Cfg = cfg
	f.Started = append(f.Started, cfg)
	f.Connected = true
	if cfg.TopicStat != "" && f.notice != nil {
		f.Status = append(f.Status, publishedMsg{Topic: cfg.TopicStat, Payload: f.notice()})
	}
	return nil
}

func (f *Fake) Restart(cfg config.Record) error {
	f.Closed = false
	return f.Start(cfg)
}

func (f *Fake) PublishStatus(payload []byte) error {
	if f.PublishErr != nil {
		return f.PublishErr
	}
	if f.Cfg.TopicStat == "" {
		return nil
	}
	f.Status = append(f.Status, publishedMsg{Topic: f.Cfg.TopicStat, Payload: payload})
	return nil
}

func (f *Fake) PublishTelemetry(payload []byte) error {
	if f.PublishErr != nil {
		return f.PublishErr
	}
	if f.Cfg.TopicTele == "" {
		return nil
	}
	f.Tele = append(f.Tele, publishedMsg{Topic: f.Cfg.TopicTele, Payload: payload})
	return nil
}

func (f *Fake) IsConnected() bool { return f.Connected }

func (f *Fake) Close() error {
	f.Closed = true
	f.Connected = false
	return nil
}

// DeliverCommand simulates an inbound payload on topic_cmd.
func (f *Fake) DeliverCommand(payload []byte) {
	if f.sink != nil {
		f.sink(payload)
	}
}
