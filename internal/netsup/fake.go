package netsup

// Fake is a scriptable Driver double for tests. Calls are recorded in
// Calls; queue events onto the Events channel with Push before or during
// Supervisor.Run.
type Fake struct {
	events chan Event

	Calls []string

	APUp          bool
	StationSSID   string
	StationPass   string
	ConnectCalls  int
	StartAPErr    error
	ConnectErr    error
	ConfigureErr  error
}

// NewFake creates a Fake driver with a buffered event channel.
func NewFake() *Fake {
	return &Fake{events: make(chan Event, 16)}
}

func (f *Fake) StartAP(ssid, password string, channel int) error {
	f.Calls = append(f.Calls, "StartAP")
	if f.StartAPErr != nil {
		return f.StartAPErr
	}
	f.APUp = true
	return nil
}

func (f *Fake) StopAP() error {
	f.Calls = append(f.Calls, "StopAP")
	f.APUp = false
	return nil
}

func (f *Fake) ConfigureStation(ssid, password string) error {
	f.Calls = append(f.Calls, "ConfigureStation")
	if f.ConfigureErr != nil {
		return f.ConfigureErr
	}
	f.StationSSID, f.StationPass = ssid, password
	return nil
}

func (f *Fake) Connect() error {
	f.Calls = append(f.Calls, "Connect")
	f.ConnectCalls++
	return f.ConnectErr
}

func (f *Fake) Disconnect() error {
	f.Calls = append(f.Calls, "Disconnect")
	return nil
}

func (f *Fake) Events() <-chan Event { return f.events }

// Push enqueues an event for the supervisor to observe.
func (f *Fake) Push(ev Event) { f.events <- ev }
