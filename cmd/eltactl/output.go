package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/oraqon/elta/elta"
)

// outputStatus prints one status line for session mode
func outputStatus(h elta.MessageHeader, status elta.SystemStatus, state elta.LinkState) {
	switch outputFmt {
	case "json":
		printJSON(map[string]interface{}{
			"time":       time.Now().Format(time.RFC3339Nano),
			"sequence":   h.SequenceNumber,
			"radarState": status.State.String(),
			"mode":       status.Mode.String(),
			"errorCode":  status.ErrorCode,
			"linkState":  state.String(),
		})
	default:
		fmt.Printf("[%s] #%-5d radar=%s mode=%s link=%s",
			elta.FormatTimeTag(h.TimeTag),
			h.SequenceNumber,
			status.State,
			status.Mode,
			state,
		)
		if status.Fields&elta.StatusHasTemperature != 0 {
			fmt.Printf(" temp=%.1f°C", status.TemperatureCelsius())
		}
		if status.Fields&elta.StatusHasAntenna != 0 {
			fmt.Printf(" ant=%.2f°", status.AntennaDegrees())
		}
		fmt.Println()
	}
}

// outputDecoded prints one full decoded message for monitor mode
func outputDecoded(d elta.Decoded) {
	switch outputFmt {
	case "json":
		printJSON(map[string]interface{}{
			"time":     time.Now().Format(time.RFC3339Nano),
			"message":  elta.MessageName(d.Header.MessageID),
			"source":   fmt.Sprintf("0x%08X", d.Header.SourceID),
			"sequence": d.Header.SequenceNumber,
			"timeTag":  elta.FormatTimeTag(d.Header.TimeTag),
			"body":     d.Body,
		})
	default:
		fmt.Println(elta.Format(d))
	}
}

// printStats reports link counters at session exit
func printStats(s elta.MetricsSnapshot) {
	if outputFmt == "json" {
		printJSON(s)
		return
	}

	fmt.Println()
	fmt.Println("Link statistics:")
	fmt.Printf("  uptime:          %s\n", s.Uptime.Round(time.Millisecond))
	fmt.Printf("  messages in/out: %d / %d\n", s.MessagesReceived, s.MessagesSent)
	fmt.Printf("  bytes in/out:    %d / %d\n", s.BytesReceived, s.BytesSent)
	fmt.Printf("  statuses:        %d\n", s.StatusesReceived)
	fmt.Printf("  targets:         %d\n", s.TargetsReceived)
	fmt.Printf("  keep-alives:     %d\n", s.KeepAlivesSent)
	fmt.Printf("  acks sent:       %d\n", s.AcksSent)
	fmt.Printf("  controls sent:   %d\n", s.ControlsSent)
	fmt.Printf("  decode errors:   %d\n", s.DecodeErrors)
	fmt.Printf("  desyncs:         %d\n", s.FramingDesyncs)
	if s.StatusInterval.Count > 0 {
		fmt.Printf("  status interval: avg %s (min %s, max %s)\n",
			s.StatusInterval.Avg.Round(time.Millisecond),
			s.StatusInterval.Min.Round(time.Millisecond),
			s.StatusInterval.Max.Round(time.Millisecond),
		)
	}
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "encode output: %v\n", err)
	}
}
