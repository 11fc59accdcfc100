package netsup

import (
	"context"
	"log"
	"time"

	"github.com/meridian-iot/gatekeeper/internal/config"
)

// Provisioning AP parameters, preserved verbatim from the original
// firmware for continuity with existing documentation.
const (
	ProvisioningSSID     = "ESP_CONFIG_AP"
	ProvisioningPassword = "12345678"
	ProvisioningChannel  = 1

	ConnectWatchdogHorizon = 30 * time.Second
)

// ErrConnectTimeout is returned by Run when the connect watchdog expires;
// the caller (bootstrap) is expected to treat it as a request to restart
// the process into provisioning mode.
type ErrConnectTimeout struct{}

func (ErrConnectTimeout) Error() string { return "netsup: connect watchdog expired" }

// Supervisor implements the Connectivity Supervisor. It is the
// sole writer of Wi-Fi runtime fields; the Configuration Store remains the
// sole source of truth for persisted credentials and boot mode.
type Supervisor struct {
	driver   Driver
	store    config.Store
	clock    Clock
	reconfig chan reconfigureRequest
}

type reconfigureRequest struct {
	ssid, pass string
}

// NewSupervisor creates a Supervisor bound to driver and store.
func NewSupervisor(driver Driver, store config.Store, clock Clock) *Supervisor {
	return &Supervisor{driver: driver, store: store, clock: clock, reconfig: make(chan reconfigureRequest, 1)}
}

// Reconfigure requests the running Supervisor to reconfigure the station
// with new credentials, disconnect, reconnect, and re-arm the connect
// watchdog. The request channel holds one pending request: a call returns
// as soon as its request is queued, and blocks only while an earlier
// request is still waiting for Run's select loop to accept it.
func (s *Supervisor) Reconfigure(ssid, pass string) {
	s.reconfig <- reconfigureRequest{ssid: ssid, pass: pass}
}

// Run resolves the boot mode, brings up the driver accordingly, and then
// services driver events until ctx is canceled or the connect watchdog
// expires. On watchdog expiry it persists boot_mode=PROVISIONING and
// returns ErrConnectTimeout so the caller can restart the process into
// provisioning mode.
func (s *Supervisor) Run(ctx context.Context) error {
	rec, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	hasCreds := rec.WifiSSID != ""
	mode := rec.EffectiveBootMode()
	apUp := false

	if mode == config.BootProvisioning || !hasCreds {
		password := ProvisioningPassword
		if err := s.driver.StartAP(ProvisioningSSID, password, ProvisioningChannel); err != nil {
			return err
		}
		apUp = true
	}

	var watchdog <-chan time.Time
	if hasCreds {
		if err := s.driver.ConfigureStation(rec.WifiSSID, rec.WifiPass); err != nil {
			return err
		}
		if err := s.driver.Connect(); err != nil {
			return err
		}
		watchdog = s.clock.After(ConnectWatchdogHorizon)
	}

	events := s.driver.Events()
	for {
		select {
		case <-ctx.Done():
			return nil

		case <-watchdog:
			rec.BootMode = config.BootProvisioning
			if err := s.store.Save(ctx, rec); err != nil {
				return err
			}
			return ErrConnectTimeout{}

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev {
			case EventGotIP:
				watchdog = nil
				rec.BootMode = config.BootOperational
				if err := s.store.Save(ctx, rec); err != nil {
					log.Printf("netsup: persist boot_mode=OPERATIONAL: %v", err)
				}
				if apUp {
					if err := s.driver.StopAP(); err != nil {
						log.Printf("netsup: stop AP: %v", err)
					}
					apUp = false
				}

			case EventDisconnected:
				if hasCreds {
					if err := s.driver.Connect(); err != nil {
						log.Printf("netsup: reconnect attempt: %v", err)
					}
				}
			}

		case req := <-s.reconfig:
			// The Provisioning Portal has already persisted the new
			// credentials (it is the sole writer of Configuration
			// records); this only drives the driver and
			// re-arms the watchdog.
			if err := s.driver.ConfigureStation(req.ssid, req.pass); err != nil {
				log.Printf("netsup: reconfigure station: %v", err)
				continue
			}
			s.driver.Disconnect()
			if err := s.driver.Connect(); err != nil {
				log.Printf("netsup: reconnect after reconfigure: %v", err)
			}
			hasCreds = true
			watchdog = s.clock.After(ConnectWatchdogHorizon)
		}
	}
}
