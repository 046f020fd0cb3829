// Command gnssdrv is an interactive demo that wires a serial port, a
// monotonic clock, a YAML config, and the driver core together against a
// real receiver.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bramburn/gnss-core/internal/clockenv"
	"github.com/bramburn/gnss-core/internal/correction"
	"github.com/bramburn/gnss-core/internal/driverconfig"
	"github.com/bramburn/gnss-core/internal/driverlog"
	"github.com/bramburn/gnss-core/internal/serialenv"
	"github.com/bramburn/gnss-core/pkg/gnssdriver"
	"go.uber.org/zap"
)

func main() {
	configPath := ""
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg, err := driverconfig.Load(configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := driverlog.New(cfg.LogLevel)
	defer logger.Sync()

	portName := cfg.Port
	if portName == "" {
		portName = selectPort()
		if portName == "" {
			log.Fatal("no port selected, exiting")
		}
	}

	fmt.Printf("opening port %s at %d baud...\n", portName, cfg.Baud)
	sp, err := serialenv.Open(portName, serialenv.Config{BaudRate: cfg.Baud})
	if err != nil {
		handleConnectionError(err, portName)
		return
	}
	defer sp.Close()

	mode := modeFromString(cfg.Mode)
	sess := gnssdriver.New(mode, cfg.RateHz, sp, clockenv.New(), logger,
		func(loc gnssdriver.Location) {
			fmt.Printf("fix: %+v\n", loc)
		},
		func(sats gnssdriver.SatelliteSet) {
			fmt.Printf("satellites: %d tracked\n", sats.Count)
		},
	)

	if cfg.NtripURL != "" {
		inj := correction.NewInjector(sp)
		src := correction.NewNtripSource(cfg.NtripURL, cfg.NtripUsername, cfg.NtripPassword, cfg.NtripMountpoint)
		go streamCorrections(src, inj, logger)
	}

	go readLoop(sp, sess)

	fmt.Println("receiving... press Ctrl+C to exit")
	select {}
}

// streamCorrections forwards RTCM3 correction frames from an NTRIP caster to
// the receiver for as long as the demo runs, reconnecting after any stream
// error rather than giving up the session over one dropped connection.
func streamCorrections(src *correction.NtripSource, inj *correction.Injector, logger *zap.Logger) {
	for {
		if err := src.Stream(context.Background(), inj); err != nil {
			logger.Warn("ntrip stream ended, reconnecting", zap.Error(err))
			time.Sleep(5 * time.Second)
			continue
		}
		forwarded, dropped := inj.Stats()
		logger.Info("ntrip stream closed", zap.Int("framesForwarded", forwarded), zap.Int("framesDropped", dropped))
	}
}

func readLoop(sp *serialenv.Port, sess *gnssdriver.Session) {
	buf := make([]byte, 256)
	for {
		n, err := sp.Read(buf)
		if n > 0 {
			sess.Receive(buf[:n])
		}
		if err != nil {
			time.Sleep(100 * time.Millisecond)
		}
	}
}

func modeFromString(s string) gnssdriver.Mode {
	switch strings.ToLower(s) {
	case "ubx", "ublox":
		return gnssdriver.ModeUBlox
	case "mediatek", "mtk":
		return gnssdriver.ModeMediatek
	default:
		return gnssdriver.ModeNMEAPassive
	}
}

// selectPort prompts the user to pick a serial port, mirroring the
// original CLI's numbered-list flow.
func selectPort() string {
	details, err := serialenv.PortDetails()
	if err != nil {
		log.Fatalf("listing serial ports: %v", err)
	}
	if len(details) == 0 {
		log.Fatal("no serial ports found, please check connections")
	}
	if len(details) == 1 {
		fmt.Printf("only one port available, using %s\n", details[0].Name)
		return details[0].Name
	}

	fmt.Println("available serial ports:")
	for i, d := range details {
		line := fmt.Sprintf("%d: %s", i+1, d.Name)
		if d.IsUSB {
			line += fmt.Sprintf(" [USB: VID:%s PID:%s %s]", d.VID, d.PID, d.Product)
		}
		fmt.Println(line)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("enter port number (or 0 to exit): ")
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		selection, err := strconv.Atoi(input)
		if err != nil {
			fmt.Println("invalid selection, try again")
			continue
		}
		if selection == 0 {
			return ""
		}
		if selection > 0 && selection <= len(details) {
			return details[selection-1].Name
		}
		fmt.Println("invalid selection, try again")
	}
}

func handleConnectionError(err error, portName string) {
	log.Printf("error opening serial port %s: %v", portName, err)
	fmt.Println("\ntroubleshooting:")
	fmt.Println("1. check the receiver is connected")
	fmt.Println("2. verify no other application holds the port")
	fmt.Println("3. confirm the configured baud rate matches the receiver")
}
