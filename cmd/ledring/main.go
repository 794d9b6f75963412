// Command ledring blinks one LED of a ring and moves the selection around it
// under push-button control.
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
	"strconv"
	"strings"
	"syscall"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/sweeney/ledring/internal/clock"
	"github.com/sweeney/ledring/internal/gpio"
	"github.com/sweeney/ledring/internal/mqtt"
	"github.com/sweeney/ledring/internal/ring"
	"github.com/sweeney/ledring/internal/sched"
	"github.com/sweeney/ledring/internal/status"
	"github.com/sweeney/ledring/internal/web"
)

// scheduleCapacity bounds pending deadlines. The core keeps at most three
// outstanding: the blink chain, the heartbeat and one hold check.
const scheduleCapacity = 8

type options struct {
	variant    ring.Variant
	chip       string
	ledPins    []int
	buttonPin  int
	clock      physic.Frequency
	broker     string
	httpAddr   string
	heartbeat  time.Duration
	printState bool
}

func main() {
	opts := options{clock: 8 * physic.MegaHertz}

	variant := flag.String("variant", string(ring.VariantFull), "Firmware variant: blink, toggle or full")
	flag.StringVar(&opts.chip, "chip", gpio.DefaultChip, "GPIO chip name")
	leds := flag.String("leds", formatPins(gpio.DefaultLEDPins), "Comma-separated LED line offsets in ring order")
	flag.IntVar(&opts.buttonPin, "button", gpio.DefaultButtonPin, "Button line offset")
	flag.Var(&opts.clock, "clock", "Tick counter frequency (e.g. 8MHz)")
	flag.StringVar(&opts.broker, "broker", "", "MQTT broker for diagnostics (empty to disable)")
	flag.StringVar(&opts.httpAddr, "http", ":80", "HTTP status address (empty to disable)")
	flag.DurationVar(&opts.heartbeat, "heartbeat", time.Minute, "Heartbeat interval (0 to disable)")
	flag.BoolVar(&opts.printState, "print-state", false, "Print the button level and exit")

	flag.Parse()

	pins, err := parsePins(*leds)
	if err != nil {
		log.Fatalf("fatal: -leds: %v", err)
	}
	opts.ledPins = pins
	opts.variant = ring.Variant(*variant)

	if err := run(opts); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(opts options) error {
	cfg, err := ring.ConfigFor(opts.variant)
	if err != nil {
		return err
	}
	cfg.Heartbeat = opts.heartbeat

	conv, err := clock.NewConverter(opts.clock)
	if err != nil {
		return fmt.Errorf("init clock: %w", err)
	}
	if err := cfg.Validate(conv); err != nil {
		return err
	}
	if len(opts.ledPins) < cfg.LEDs {
		return fmt.Errorf("variant %s needs %d LED pins, got %d", cfg.Variant, cfg.LEDs, len(opts.ledPins))
	}

	// Print state mode
	if opts.printState {
		btn, err := gpio.NewRealButton(opts.chip, opts.buttonPin, func(bool) {})
		if err != nil {
			return fmt.Errorf("init button: %w", err)
		}
		defer btn.Close()

		pressed, err := btn.Level()
		if err != nil {
			return err
		}
		fmt.Printf("button: %s\n", levelString(pressed))
		return nil
	}

	leds, err := gpio.NewRealLEDs(opts.chip, opts.ledPins[:cfg.LEDs])
	if err != nil {
		return fmt.Errorf("init leds: %w", err)
	}
	defer leds.Close()

	var publisher mqtt.Publisher = nopPublisher{}
	var mqttStatus mqtt.ConnectionStatus
	diag := diagSinks{logSink{}}
	if opts.broker != "" {
		p, err := mqtt.NewRealPublisher(opts.broker)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer p.Close()
		publisher, mqttStatus = p, p
		diag = append(diag, p)
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		Variant:     string(cfg.Variant),
		LEDs:        cfg.LEDs,
		ClockHz:     conv.Hz(),
		HeartbeatMs: cfg.Heartbeat.Milliseconds(),
		Broker:      opts.broker,
		HTTPAddr:    opts.httpAddr,
	})

	counter := clock.NewHostCounter(conv, 0)
	s := sched.New(counter, conv, scheduleCapacity)
	core, err := ring.New(cfg, conv, counter, s, leds, diag)
	if err != nil {
		return err
	}
	core.SetObserver(tracker)

	if cfg.Button {
		btn, err := gpio.NewRealButton(opts.chip, opts.buttonPin, core.OnEdge)
		if err != nil {
			return fmt.Errorf("init button: %w", err)
		}
		defer btn.Close()
	}

	// Start HTTP status server
	if opts.httpAddr != "" {
		srv := web.New(opts.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", opts.httpAddr)
	}

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(core, s, publisher, mqttStatus, tracker, ticker.C, sigCh)
}

// runLoop starts the core, drives the scheduler on its own goroutine and
// blocks until a signal arrives. STARTUP and SHUTDOWN are published with a
// status snapshot.
func runLoop(core *ring.Core, s *sched.Scheduler, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, tick <-chan time.Time, sig <-chan os.Signal) error {
	refresh := func() status.Snapshot {
		if mqttStatus != nil {
			tracker.SetMQTTConnected(mqttStatus.IsConnected())
		}
		return tracker.Snapshot()
	}

	core.Start()

	snap := refresh()
	startup := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startup); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	for {
		select {
		case <-tick:
			refresh()

		case err := <-done:
			return fmt.Errorf("scheduler stopped: %w", err)

		case sg := <-sig:
			log.Printf("received %v, shutting down", sg)
			cancel()
			if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("scheduler: %v", err)
			}

			reason := signalName(sg)
			snap := refresh()
			event := mqtt.SystemEvent{
				Timestamp:  snap.Now,
				Event:      "SHUTDOWN",
				Reason:     reason,
				Retained:   true,
				RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", reason),
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil
		}
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

func levelString(pressed bool) string {
	if pressed {
		return "PRESSED"
	}
	return "RELEASED"
}

// parsePins parses a comma-separated list of line offsets.
func parsePins(s string) ([]int, error) {
	var pins []int
	seen := make(map[int]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		pin, err := strconv.Atoi(f)
		if err != nil || pin < 0 {
			return nil, fmt.Errorf("invalid line offset %q", f)
		}
		if seen[pin] {
			return nil, fmt.Errorf("line offset %d listed twice", pin)
		}
		seen[pin] = true
		pins = append(pins, pin)
	}
	if len(pins) == 0 {
		return nil, errors.New("no line offsets given")
	}
	return pins, nil
}

func formatPins(pins []int) string {
	parts := make([]string, len(pins))
	for i, p := range pins {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}
