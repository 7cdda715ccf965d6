// predictctl submits a single prediction request to a running server and
// prints the result.
//
// Usage:
//
//	predictctl -addr http://localhost:5000 -f patient.json
//	echo '{"Glucose": 120, ...}' | predictctl
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"diabetes-predict/internal/client"
)

func main() {
	addr := flag.String("addr", "http://localhost:5000", "prediction server address")
	file := flag.String("f", "-", "JSON input file, or - for stdin")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	health := flag.Bool("health", false, "check server health instead of predicting")
	flag.Parse()

	c := client.New(*addr, *timeout)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *health {
		h, err := c.Health(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "health check failed:", err)
			os.Exit(1)
		}
		fmt.Printf("status: %s\nmodel:  %s\n", h.Status, h.Model)
		return
	}

	input, err := readInput(*file)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	res, err := c.Predict(ctx, input)
	if err != nil {
		var vErr *client.ValidationError
		if errors.As(err, &vErr) {
			fmt.Fprintln(os.Stderr, "input rejected:")
			for _, msg := range vErr.Messages {
				fmt.Fprintln(os.Stderr, "  -", msg)
			}
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "prediction failed:", err)
		os.Exit(1)
	}

	fmt.Printf("prediction:       %s\n", res.Prediction)
	fmt.Printf("probability:      %.4f\n", res.Probability)
	fmt.Printf("confidence:       %s (%.4f)\n", res.Confidence, res.ConfidenceScore)
	fmt.Printf("model:            %s\n", res.Model)
}

func readInput(path string) (map[string]any, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var input map[string]any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("input is not a JSON object: %w", err)
	}
	return input, nil
}
