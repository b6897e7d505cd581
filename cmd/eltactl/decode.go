package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oraqon/elta/elta"
)

var decodeFile string

var decodeCmd = &cobra.Command{
	Use:   "decode [hex...]",
	Short: "Decode captured messages",
	Long: `Decode parses hex-encoded messages from the arguments, a file, or
stdin (one message per line) and prints them in readable form. A single
byte stream containing several back-to-back messages is split on the
declared message lengths, the same way the live receiver does.

Examples:
  # Decode one captured message
  eltactl decode 35210000000400F0CE14000000E8C2410107000000

  # Decode a capture file, one hex string per line
  eltactl decode --file capture.txt

  # Pipe from another tool
  xxd -p capture.bin | tr -d '\n' | eltactl decode`,

	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().StringVarP(&decodeFile, "file", "f", "", "Read hex lines from a file instead of arguments")
}

func runDecode(cmd *cobra.Command, args []string) error {
	rev, err := revision()
	if err != nil {
		return err
	}

	lines, err := decodeInput(args)
	if err != nil {
		return err
	}

	for _, line := range lines {
		data, err := hex.DecodeString(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping invalid hex: %v\n", err)
			continue
		}

		re := elta.NewReassembler(rev.Layout)
		frames := re.Push(data)
		if re.Pending() > 0 {
			fmt.Fprintf(os.Stderr, "warning: %d trailing bytes do not form a complete message\n", re.Pending())
		}

		for _, frame := range frames {
			d, err := elta.DecodeMessage(rev.Layout, frame)
			if err != nil {
				fmt.Fprintf(os.Stderr, "decode: %v\n", err)
			}
			fmt.Println(elta.Format(d))
		}
	}

	return nil
}

// decodeInput collects hex strings from args, --file or stdin.
func decodeInput(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	var r io.Reader = os.Stdin
	if decodeFile != "" {
		f, err := os.Open(decodeFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		line = strings.ReplaceAll(line, " ", "")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
