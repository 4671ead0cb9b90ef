// Command cyphal-heartbeat wires a Transmitter and a Receiver to a virtual
// bus driver and exchanges a fixed-size heartbeat message at 1 Hz, as a
// worked example of the core API. It is a wiring demo, not a deliverable
// in its own right.
package main

import (
	"flag"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	cyphalcan "github.com/samsamfire/gocyphal"
	"github.com/samsamfire/gocyphal/pkg/can/virtual"
)

const heartbeatSubject cyphalcan.SubjectID = 7509

func main() {
	log.SetLevel(log.InfoLevel)

	address := flag.String("a", "localhost:18000", "virtual bus broker address")
	nodeIDFlag := flag.Int("n", 32, "local node id (0..127)")
	flag.Parse()

	nodeID := cyphalcan.NodeID(*nodeIDFlag)
	logger := log.StandardLogger()

	driver, err := virtual.Dial(*address, logger)
	if err != nil {
		logger.WithError(err).Fatal("could not connect to virtual bus broker")
		os.Exit(1)
	}
	defer driver.Close()

	tx := cyphalcan.NewTransmitterFromConfig(cyphalcan.Config{
		Mtu:                   cyphalcan.MtuClassicCAN,
		OutgoingQueueCapacity: 32,
		MaxPublishers:         4,
		MaxRequesters:         4,
		Logger:                logger,
	})
	if err := tx.RegisterPublisher(heartbeatSubject); err != nil {
		logger.WithError(err).Fatal("could not register heartbeat publisher")
		os.Exit(1)
	}

	rx := cyphalcan.NewReceiver(&nodeID, logger)
	rx.SubscribeMessage(
		heartbeatSubject,
		cyphalcan.SubscriptionSpec{PayloadSizeMax: 7, TransferTimeout: 3_000_000},
		cyphalcan.NewLinearSessionStore(8),
	)
	// Installs the optimized acceptance filter for the heartbeat subject;
	// the virtual driver treats this as a no-op, but a socketcanfd driver
	// programs the kernel's CAN_RAW_FILTER with it.
	if err := rx.ApplyFilters(driver, 8); err != nil {
		logger.WithError(err).Warn("could not apply acceptance filters")
	}

	clock := &wallClock{start: time.Now()}
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var transferID cyphalcan.TransferID
	for {
		select {
		case <-ticker.C:
			now := clock.Now()
			transfer := cyphalcan.Transfer{
				Header: cyphalcan.Header{
					Kind:       cyphalcan.KindMessage,
					Priority:   cyphalcan.PriorityNominal,
					TransferID: transferID,
					Subject:    heartbeatSubject,
					Source:     nodeID,
				},
				Payload: []byte{0, 0, 0, 0, 4, 0x78, 0x68},
			}
			transferID = (transferID + 1) % 32
			if err := tx.Push(transfer, now, driver); err != nil {
				logger.WithError(err).Warn("dropping heartbeat, outgoing queue rejected it")
				continue
			}
			if err := tx.Flush(now, driver); err != nil {
				logger.WithError(err).Warn("flush failed")
			}
		default:
			now := clock.Now()
			transfer, err := rx.Receive(now, driver)
			if err != nil {
				logger.WithError(err).Warn("receive failed")
				continue
			}
			if transfer != nil {
				logger.WithFields(log.Fields{
					"source":  transfer.Header.Source,
					"subject": transfer.Header.Subject,
					"bytes":   len(transfer.Payload),
				}).Info("received heartbeat")
			}
			rx.Sweep(now)
			time.Sleep(time.Millisecond)
		}
	}
}

// wallClock implements cyphalcan.Clock over the wall clock, wrapping into a
// 32-bit microsecond counter relative to process start.
type wallClock struct {
	start time.Time
}

func (c *wallClock) Now() cyphalcan.Microseconds32 {
	return cyphalcan.Microseconds32(uint32(time.Since(c.start).Microseconds()))
}
