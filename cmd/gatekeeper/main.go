// Command gatekeeper drives a motorized gate: it runs the gate state
// machine against GPIO limit switches and motor outputs, accepts remote
// commands over MQTT, and serves a provisioning portal over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/meridian-iot/gatekeeper/internal/broker"
	"github.com/meridian-iot/gatekeeper/internal/config"
	"github.com/meridian-iot/gatekeeper/internal/decoder"
	"github.com/meridian-iot/gatekeeper/internal/gpio"
	"github.com/meridian-iot/gatekeeper/internal/logic"
	"github.com/meridian-iot/gatekeeper/internal/netsup"
	"github.com/meridian-iot/gatekeeper/internal/status"
	"github.com/meridian-iot/gatekeeper/internal/web"
)

// restartExitCode tells the process supervisor (systemd or similar) that
// the exit is a deliberate restart request, not a crash.
const restartExitCode = 3

func main() {
	dataDir := flag.String("data-dir", "/var/lib/gatekeeper", "Directory for the configuration store")
	httpAddr := flag.String("http", ":80", "Provisioning portal address (empty to disable)")
	pinLSA := flag.Int("pin-lsa", gpio.DefaultPinLimitOpen, "GPIO pin for the fully-open limit switch")
	pinLSC := flag.Int("pin-lsc", gpio.DefaultPinLimitClosed, "GPIO pin for the fully-closed limit switch")
	pinMotorA := flag.Int("pin-motor-a", gpio.DefaultPinMotorOpen, "GPIO pin for the open-direction motor output")
	pinMotorC := flag.Int("pin-motor-c", gpio.DefaultPinMotorClose, "GPIO pin for the close-direction motor output")
	pinLamp := flag.Int("pin-lamp", gpio.DefaultPinLamp, "GPIO pin for the warning lamp")
	printState := flag.Bool("print-state", false, "Print current limit-switch state and exit")

	flag.Parse()

	if err := run(*dataDir, *httpAddr, *pinLSA, *pinLSC, *pinMotorA, *pinMotorC, *pinLamp, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(dataDir, httpAddr string, pinLSA, pinLSC, pinMotorA, pinMotorC, pinLamp int, printState bool) error {
	// Initialize GPIO
	inputs, err := gpio.NewRealInputs(pinLSA, pinLSC)
	if err != nil {
		return fmt.Errorf("init gpio inputs: %w", err)
	}
	defer inputs.Close()

	// Print state mode
	if printState {
		open, closed, err := inputs.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		fmt.Printf("LSA(open): %s, LSC(closed): %s\n", assertedString(open), assertedString(closed))
		return nil
	}

	outputs, err := gpio.NewRealOutputs(pinMotorA, pinMotorC, pinLamp)
	if err != nil {
		return fmt.Errorf("init gpio outputs: %w", err)
	}
	defer outputs.Close()

	// Initialize the configuration store
	store, err := config.NewBadger(config.BadgerOptions{Dir: dataDir})
	if err != nil {
		return fmt.Errorf("init config store: %w", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rec, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	queue := logic.NewCommandQueue()
	tracker := status.NewTracker()

	notice := func() []byte {
		payload, err := status.MarshalConnectNotice(tracker.Snapshot())
		if err != nil {
			log.Printf("marshal connect notice: %v", err)
			return nil
		}
		return payload
	}
	channel := broker.NewReal(func(payload []byte) {
		decoder.Enqueue(payload, queue)
	}, notice)
	defer channel.Close()

	if rec.BrokerURI != "" {
		if err := channel.Start(rec); err != nil {
			log.Printf("broker start: %v (will keep running without it)", err)
		}
	} else {
		log.Printf("no broker configured, running standalone")
	}

	restart := func() {
		log.Printf("restart requested")
		os.Exit(restartExitCode)
	}

	supervisor := netsup.NewSupervisor(netsup.NewHostDriver(), store, netsup.RealClock())

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := supervisor.Run(ctx)
		if errors.Is(err, netsup.ErrUnsupported) {
			log.Printf("wifi supervision unavailable: %v", err)
			return nil
		}
		if _, ok := err.(netsup.ErrConnectTimeout); ok {
			log.Printf("connect watchdog expired, restarting into provisioning")
			restart()
		}
		return err
	})

	if httpAddr != "" {
		srv := web.New(httpAddr, web.Deps{
			Store:      store,
			Supervisor: supervisor,
			Broker:     channel,
			Tracker:    tracker,
			Restart:    restart,
		})
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		log.Printf("provisioning portal listening on %s", httpAddr)
	}

	clock := logic.RealClock()
	fsm := logic.NewFSM(clock, inputs, outputs, queue)
	g.Go(func() error {
		return runLoop(ctx, fsm, tracker, channel, clock)
	})

	log.Printf("started: data-dir=%s broker=%q topics=[%q %q %q]",
		dataDir, rec.BrokerURI, rec.TopicCmd, rec.TopicStat, rec.TopicTele)

	if err := g.Wait(); err != nil {
		return err
	}

	// Leave a retained status behind so dashboards show the last known
	// gate state after the process exits.
	if payload, err := status.MarshalStatus(tracker.Snapshot()); err == nil {
		if err := channel.PublishStatus(payload); err != nil {
			log.Printf("publish shutdown status: %v", err)
		}
	}
	log.Printf("shut down")
	return nil
}

// runLoop drives the gate state machine one cycle at a time: step the
// machine, publish a status message if gate_state changed, publish
// periodic telemetry, then sleep for the state's cycle interval.
func runLoop(ctx context.Context, fsm *logic.FSM, tracker *status.Tracker, channel broker.Channel, clock logic.Clock) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if _, err := fsm.Step(); err != nil {
			log.Printf("gpio read error: %v", err)
			clock.Sleep(fsm.CycleInterval())
			continue
		}

		snap, changed := tracker.Update(fsm.Snapshot())
		if changed {
			log.Printf("state: %s (lsa=%v lsc=%v err=%d)", snap.State, snap.LimitOpen, snap.LimitClosed, snap.Err)
			if payload, err := status.MarshalStatus(snap); err != nil {
				log.Printf("marshal status: %v", err)
			} else if err := channel.PublishStatus(payload); err != nil {
				log.Printf("publish status: %v", err)
			}
		}

		if fsm.TelemetryDue(clock.Now()) {
			if payload, err := status.MarshalStatus(snap); err != nil {
				log.Printf("marshal telemetry: %v", err)
			} else if err := channel.PublishTelemetry(payload); err != nil {
				log.Printf("publish telemetry: %v", err)
			}
		}

		clock.Sleep(fsm.CycleInterval())
	}
}

func assertedString(on bool) string {
	if on {
		return "ASSERTED"
	}
	return "clear"
}
