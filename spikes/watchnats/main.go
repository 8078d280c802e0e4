package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/DullnessOutfield/ayars/pkg/report"
	"github.com/nats-io/nats.go"
)

func main() {
	url := flag.String("url", nats.DefaultURL, "NATS server")
	subject := flag.String("subject", "ayars.capture", "subject prefix the reports are published under")
	flag.Parse()

	nc, err := nats.Connect(*url)
	if err != nil {
		log.Fatal(err)
	}
	defer nc.Close()

	// Subscribe
	if _, err := nc.Subscribe(*subject+".>", func(m *nats.Msg) {
		var env report.Envelope
		if err := json.Unmarshal(m.Data, &env); err != nil {
			fmt.Printf("subject: %s, undecodable message: %s\n", m.Subject, string(m.Data))
			return
		}
		switch {
		case env.Error != "":
			fmt.Printf("[%s] %s: error: %s\n", env.RunID, env.File, env.Error)
		case env.Devices != nil:
			fmt.Printf("[%s] %s: %d devices\n", env.RunID, env.File, len(env.Devices))
		default:
			fmt.Printf("[%s] %s: probes %v\n", env.RunID, env.File, env.Probes)
		}
	}); err != nil {
		log.Fatal(err)
	}

	// Wait for interrupt signal
	quitCh := make(chan os.Signal, 1)
	signal.Notify(quitCh, os.Interrupt)
	<-quitCh
}
